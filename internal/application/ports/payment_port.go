package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentIntent datos mínimos de un intento de pago de la pasarela.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       decimal.Decimal
	Currency     string
	Metadata     map[string]string
	// LastError mensaje del último fallo (solo en payment_failed).
	LastError string
}

// PaymentEvent evento verificado recibido por webhook.
type PaymentEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent
}

// Tipos de evento que la aplicación procesa.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// PaymentGateway puerto hacia la pasarela de pago con tarjeta.
type PaymentGateway interface {
	// CreateIntent crea un intento de pago por amount (en la moneda configurada).
	CreateIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
	// ParseEvent verifica la firma del webhook y devuelve el evento.
	ParseEvent(payload []byte, signature string) (*PaymentEvent, error)
}
