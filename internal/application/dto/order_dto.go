package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de pedido: interna (book_id) o externa (external_name).
type OrderLineRequest struct {
	BookID       *int64           `json:"book_id" validate:"required_without=ExternalName"`
	Quantity     int              `json:"quantity" validate:"required,min=1"`
	UnitPrice    *decimal.Decimal `json:"unit_price"` // por defecto el precio del libro
	ExternalName string           `json:"external_name" validate:"omitempty,max=500"`
	ExternalURL  string           `json:"external_url" validate:"omitempty,url"`
}

// CreateOrderRequest alta de pedido desde el back-office.
type CreateOrderRequest struct {
	ClientID        string             `json:"client_id" validate:"omitempty,uuid"`
	Type            string             `json:"type" validate:"omitempty,oneof=interno tienda iberlibro uniliber abebooks perez_galdos express"`
	PaymentMethod   string             `json:"payment_method" validate:"omitempty,oneof=tarjeta paypal transferencia reembolso efectivo bizum"`
	ShippingAddress string             `json:"shipping_address"`
	ShippingCost    decimal.Decimal    `json:"shipping_cost"`
	Deposit         decimal.Decimal    `json:"deposit"`
	Carrier         string             `json:"carrier"`
	TrackingNumber  string             `json:"tracking_number"`
	Notes           string             `json:"notes"`
	ExternalRef     string             `json:"external_ref"`
	Lines           []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ChangeOrderStatusRequest cambio de estado.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// SetTrackingRequest datos de envío.
type SetTrackingRequest struct {
	Carrier        string `json:"carrier" validate:"required,max=100"`
	TrackingNumber string `json:"tracking_number" validate:"max=100"`
}

// OrderFilterRequest filtros de query del listado de pedidos.
type OrderFilterRequest struct {
	Status   string `query:"status"`
	Type     string `query:"type"`
	ClientID string `query:"client_id"`
	From     string `query:"from"` // YYYY-MM-DD
	To       string `query:"to"`
	Query    string `query:"q"`
}

// OrderLineResponse línea de pedido.
type OrderLineResponse struct {
	ID          int64           `json:"id"`
	BookID      *int64          `json:"book_id,omitempty"`
	BookCode    string          `json:"book_code,omitempty"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	External    bool            `json:"external"`
	ExternalURL string          `json:"external_url,omitempty"`
}

// OrderResponse pedido con líneas y estado mostrado.
type OrderResponse struct {
	ID              int64               `json:"id"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	DisplayStatus   string              `json:"display_status"`
	StatusLabel     string              `json:"status_label"`
	PaymentMethod   string              `json:"payment_method"`
	ClientID        string              `json:"client_id,omitempty"`
	ClientName      string              `json:"client_name,omitempty"`
	ClientEmail     string              `json:"client_email,omitempty"`
	UserID          string              `json:"user_id,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Carrier         string              `json:"carrier,omitempty"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Total           decimal.Decimal     `json:"total"`
	Deposit         decimal.Decimal     `json:"deposit"`
	PendingAmount   decimal.Decimal     `json:"pending_amount"`
	Notes           string              `json:"notes"`
	ExternalRef     string              `json:"external_ref,omitempty"`
	OrderDate       time.Time           `json:"order_date"`
	Lines           []OrderLineResponse `json:"lines"`
	NextStatuses    []string            `json:"next_statuses"`
}

// OrderListResponse lista paginada.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OrderStatsResponse estadísticas de pedidos.
type OrderStatsResponse struct {
	Total        int             `json:"total"`
	ByStatus     map[string]int  `json:"by_status"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	PendingCount int             `json:"pending_count"`
}

// TopSellingDTO producto más vendido.
type TopSellingDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StatusOptionDTO estado seleccionable en la UI.
type StatusOptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
