// Package payment adaptador de la pasarela de pago con tarjeta (Stripe).
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/pkg/config"
)

var _ ports.PaymentGateway = (*StripeGateway)(nil)

var hundred = decimal.NewFromInt(100)

// StripeGateway implementa ports.PaymentGateway con PaymentIntents de Stripe.
type StripeGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
	currency      string
}

// NewStripeGateway construye el adaptador. Requiere clave secreta.
func NewStripeGateway(cfg config.StripeConfig) (*StripeGateway, error) {
	if !cfg.Enabled() {
		return nil, errors.New("stripe: STRIPE_SECRET_KEY no configurada")
	}
	return newStripeGateway(cfg, stripe.GetBackend(stripe.APIBackend)), nil
}

func newStripeGateway(cfg config.StripeConfig, backend stripe.Backend) *StripeGateway {
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "eur"
	}
	return &StripeGateway{
		intents:       &paymentintent.Client{B: backend, Key: cfg.SecretKey},
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
	}
}

// CreateIntent crea el PaymentIntent; amount se convierte a céntimos.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (*ports.PaymentIntent, error) {
	cents := ToCents(amount)
	if cents <= 0 {
		return nil, fmt.Errorf("stripe: importe inválido %s", amount.String())
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: crear payment intent: %w", err)
	}
	return toIntent(pi), nil
}

// GetIntent consulta el estado de un PaymentIntent.
func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: consultar payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

// ParseEvent verifica la firma Stripe-Signature y extrae el PaymentIntent del evento.
// Los eventos que no son de payment_intent se devuelven sin Intent.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*ports.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: firma de webhook inválida: %w", err)
	}
	out := &ports.PaymentEvent{ID: event.ID, Type: string(event.Type)}
	if !strings.HasPrefix(out.Type, "payment_intent.") || event.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe: payment intent del evento: %w", err)
	}
	out.Intent = toIntent(&pi)
	return out, nil
}

// ToCents convierte un importe en euros a céntimos redondeando.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func toIntent(pi *stripe.PaymentIntent) *ports.PaymentIntent {
	out := &ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       decimal.New(pi.Amount, -2),
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		out.LastError = pi.LastPaymentError.Msg
	}
	return out
}
