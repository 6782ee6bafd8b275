package dto

import "github.com/shopspring/decimal"

// CartItemRequest línea enviada por la tienda.
type CartItemRequest struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// ReplaceCartRequest sustituye el carrito completo. Las líneas inválidas se descartan.
type ReplaceCartRequest struct {
	Items []CartItemRequest `json:"items"`
}

// CartItemResponse línea del carrito con datos del libro.
type CartItemResponse struct {
	BookID   int64  `json:"book_id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
	// Price precio de venta con el descuento vigente; ListPrice el de catálogo.
	Price     decimal.Decimal `json:"price"`
	ListPrice decimal.Decimal `json:"list_price"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito completo.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
	Count int                `json:"count"`
}

// PlaceOrderRequest checkout del carrito.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=5"`
	ShippingMethod  string `json:"shipping_method" validate:"omitempty,oneof=standard express"`
	// Country país de destino; vacío es envío nacional.
	Country         string `json:"country" validate:"max=100"`
	// Zone zona nacional (Península, Baleares...) de las configuradas en envíos.
	Zone            string `json:"zone" validate:"max=100"`
	PaymentMethod   string `json:"payment_method" validate:"omitempty,oneof=tarjeta paypal transferencia reembolso bizum"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// PaymentIntentRequest pago de un pedido propio.
type PaymentIntentRequest struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
}

// PaymentIntentResponse datos para confirmar el pago en el cliente.
type PaymentIntentResponse struct {
	ClientSecret    string          `json:"client_secret"`
	PaymentIntentID string          `json:"payment_intent_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// PaymentStatusResponse estado de un payment intent.
type PaymentStatusResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}
