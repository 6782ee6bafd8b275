package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRequest texto pegado desde un marketplace.
type ImportRequest struct {
	Source string `json:"source" validate:"required,oneof=iberlibro uniliber abebooks generico"`
	Text   string `json:"text" validate:"required,min=5"`
}

// ImportLinePreview línea resuelta contra el catálogo.
type ImportLinePreview struct {
	Reference string          `json:"reference,omitempty"`
	BookID    *int64          `json:"book_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Found     bool            `json:"found"`
}

// ImportPreviewResponse borrador listo para revisar antes de crear el pedido.
type ImportPreviewResponse struct {
	Source          string              `json:"source"`
	Reference       string              `json:"reference,omitempty"`
	ClientName      string              `json:"client_name"`
	Email           string              `json:"email,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Street          string              `json:"street,omitempty"`
	PostalCode      string              `json:"postal_code,omitempty"`
	City            string              `json:"city,omitempty"`
	Province        string              `json:"province,omitempty"`
	Country         string              `json:"country,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	Carrier         string              `json:"carrier,omitempty"`
	Tracking        string              `json:"tracking,omitempty"`
	Total           decimal.Decimal     `json:"total"`
	Lines           []ImportLinePreview `json:"lines"`
	MatchedClients  []ClientResponse    `json:"matched_clients"`
}

// ImportResult pedidos creados por una importación.
type ImportResult struct {
	Orders        []OrderResponse `json:"orders"`
	ClientCreated bool            `json:"client_created"`
	// Skipped referencias que ya estaban importadas.
	Skipped       []string        `json:"skipped,omitempty"`
}

// MarketplaceOrderResponse pedido AbeBooks en caché.
type MarketplaceOrderResponse struct {
	ExternalID   string          `json:"abebooks_order_id"`
	OrderDate    time.Time       `json:"order_date"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	CustomerName string          `json:"customer_name"`
	Country      string          `json:"country"`
	Items        int             `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
	Tracking     string          `json:"tracking_number,omitempty"`
}

// SyncResultResponse resultado de una sincronización con AbeBooks.
type SyncResultResponse struct {
	Synced  int    `json:"synced"`
	Added   int    `json:"added,omitempty"`
	Deleted int    `json:"deleted,omitempty"`
	Failed  int    `json:"failed,omitempty"`
	Message string `json:"message"`
}
