package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura.
const (
	InvoiceStatusPending = "Pendiente"
	InvoiceStatusPaid    = "Pagada"
	InvoiceStatusVoid    = "Anulada"
)

// Invoice factura emitida a partir de un pedido.
type Invoice struct {
	ID            int64
	Number        string
	OrderID       int64
	ClientID      string
	CustomerName  string
	CustomerNIF   string
	CustomerEmail string
	Address       string
	IssueDate     time.Time
	Status        string
	PaymentMethod string
	TaxRate       decimal.Decimal // porcentaje
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	ShippingCost  decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []*InvoiceLine
}

// InvoiceLine línea de factura (precio unitario con IVA incluido).
type InvoiceLine struct {
	ID          int64
	InvoiceID   int64
	BookID      *int64
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// IsValidInvoiceStatus valida el estado de factura.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}
