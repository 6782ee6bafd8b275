package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderStatusPendingVerification = "pending_verification"
	OrderStatusPaymentPending      = "payment_pending"
	OrderStatusPending             = "pendiente"
	OrderStatusProcessing          = "procesando"
	OrderStatusShipped             = "enviado"
	OrderStatusCompleted           = "completado"
	OrderStatusCancelled           = "cancelado"
	OrderStatusReturned            = "devolucion"
)

// Tipos de pedido (canal de venta).
const (
	OrderTypeInternal    = "interno" // tienda web
	OrderTypeStore       = "tienda"  // venta presencial o telefónica
	OrderTypeIberLibro   = "iberlibro"
	OrderTypeUniliber    = "uniliber"
	OrderTypeAbeBooks    = "abebooks"
	OrderTypePerezGaldos = "perez_galdos"
	OrderTypeExpress     = "express"
)

// Métodos de pago.
const (
	PaymentCard     = "tarjeta"
	PaymentPayPal   = "paypal"
	PaymentTransfer = "transferencia"
	PaymentCOD      = "reembolso"
	PaymentCash     = "efectivo"
	PaymentBizum    = "bizum"
)

// Order representa un pedido con sus líneas. Los importes de línea incluyen IVA.
type Order struct {
	ID              int64
	UserID          string // usuario web que lo creó (vacío para pedidos de back-office)
	ClientID        string
	Type            string
	Status          string
	PaymentMethod   string
	ShippingAddress string
	Carrier         string
	TrackingNumber  string
	ShippingCost    decimal.Decimal
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Deposit         decimal.Decimal // señal
	Notes           string
	ExternalRef     string // referencia del marketplace
	StripePaymentID string
	OrderDate       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Lines []*OrderLine

	// Solo lectura (joins)
	ClientName  string
	ClientEmail string
	ClientPhone string
	UserEmail   string
	UserName    string
}

// PendingAmount total menos la señal entregada.
func (o *Order) PendingAmount() decimal.Decimal {
	p := o.Total.Sub(o.Deposit)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// ContactEmail email al que notificar (usuario web o cliente).
func (o *Order) ContactEmail() string {
	if o.UserEmail != "" {
		return o.UserEmail
	}
	return o.ClientEmail
}

// OrderLine línea de pedido. Si BookID es nil es una línea externa (nombre libre).
type OrderLine struct {
	ID           int64
	OrderID      int64
	BookID       *int64
	Quantity     int
	UnitPrice    decimal.Decimal
	ExternalName string
	ExternalURL  string

	BookTitle string // solo lectura
	BookCode  string // solo lectura
}

// IsExternal indica si la línea no referencia un libro del catálogo.
func (l *OrderLine) IsExternal() bool { return l.BookID == nil }

// Amount importe de la línea (IVA incluido).
func (l *OrderLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DisplayName nombre mostrado: título del libro, nombre externo o genérico.
func (l *OrderLine) DisplayName() string {
	switch {
	case l.BookTitle != "":
		return l.BookTitle
	case l.ExternalName != "":
		return l.ExternalName
	default:
		return "Producto desconocido"
	}
}

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Status   string
	Type     string
	ClientID string
	UserID   string
	From     *time.Time
	To       *time.Time
	Query    string
	Limit    int
	Offset   int
}

// OrderStats estadísticas agregadas de pedidos.
type OrderStats struct {
	Total      int
	ByStatus   map[string]int
	TotalSales decimal.Decimal
}

// TopSellingItem producto más vendido (por unidades).
type TopSellingItem struct {
	Name     string
	Quantity int
}

// StockMovement cambio de stock de un libro (negativo = salida).
type StockMovement struct {
	BookID int64
	Delta  int
}
