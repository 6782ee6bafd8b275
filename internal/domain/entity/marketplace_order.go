package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido en AbeBooks.
const (
	AbeBooksStatusNew          = "New"
	AbeBooksStatusAcknowledged = "Acknowledged"
	AbeBooksStatusShipped      = "Shipped"
	AbeBooksStatusCancelled    = "Cancelled"
)

// AbeBooksStatusLabels etiquetas en español de los estados AbeBooks.
var AbeBooksStatusLabels = map[string]string{
	AbeBooksStatusNew:          "Nuevo",
	AbeBooksStatusAcknowledged: "Confirmado",
	AbeBooksStatusShipped:      "Enviado",
	AbeBooksStatusCancelled:    "Cancelado",
}

// MarketplaceOrder pedido descargado de AbeBooks y guardado en caché local.
type MarketplaceOrder struct {
	ExternalID     string
	OrderDate      time.Time
	Status         string
	Customer       MarketplaceCustomer
	Items          []MarketplaceItem
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	Total          decimal.Decimal
	TrackingNumber string
	SyncedAt       time.Time
}

type MarketplaceCustomer struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

type MarketplaceItem struct {
	SKU      string          `json:"sku"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// MarketplaceOrderFilter filtros del listado en caché.
type MarketplaceOrderFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}
