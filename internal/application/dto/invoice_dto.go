package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest emisión de factura a partir de un pedido.
type CreateInvoiceRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Notes   string `json:"notes"`
}

// UpdateInvoiceStatusRequest cambio de estado de factura.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pendiente Pagada Anulada"`
}

// SendInvoiceRequest envío por email; si To está vacío se usa el email del cliente.
type SendInvoiceRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

// InvoiceLineResponse línea de factura.
type InvoiceLineResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID            int64                 `json:"id"`
	Number        string                `json:"number"`
	OrderID       int64                 `json:"order_id"`
	ClientID      string                `json:"client_id,omitempty"`
	CustomerName  string                `json:"customer_name"`
	CustomerNIF   string                `json:"customer_nif,omitempty"`
	CustomerEmail string                `json:"customer_email,omitempty"`
	Address       string                `json:"address"`
	IssueDate     time.Time             `json:"issue_date"`
	Status        string                `json:"status"`
	PaymentMethod string                `json:"payment_method"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	ShippingCost  decimal.Decimal       `json:"shipping_cost"`
	Total         decimal.Decimal       `json:"total"`
	Notes         string                `json:"notes,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// InvoiceListResponse lista paginada.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
