package ports

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// SettingsProvider acceso tipado a la configuración de negocio guardada en base de datos.
// Las categorías no guardadas devuelven sus valores por defecto.
type SettingsProvider interface {
	Company(ctx context.Context) (entity.CompanySettings, error)
	Billing(ctx context.Context) (entity.BillingSettings, error)
	Shipping(ctx context.Context) (entity.ShippingSettings, error)
	Integrations(ctx context.Context) (entity.IntegrationsSettings, error)
}

// DiscountProvider reglas de descuento activas para calcular precios de venta.
type DiscountProvider interface {
	ActiveRules(ctx context.Context) ([]*entity.DiscountRule, error)
}
