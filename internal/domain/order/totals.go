package order

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// DefaultTaxRate IVA por defecto (fracción) incluido en los precios.
var DefaultTaxRate = decimal.NewFromFloat(0.21)

// Totals desglose de importes de un pedido.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals calcula subtotal e IVA a partir de líneas con IVA incluido y suma el envío.
// rate es una fracción (0.21); si es cero se usa DefaultTaxRate.
func ComputeTotals(lines []*entity.OrderLine, shipping decimal.Decimal, rate decimal.Decimal) Totals {
	if rate.IsZero() || rate.IsNegative() {
		rate = DefaultTaxRate
	}
	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.Amount())
	}
	subtotal := gross.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tax := gross.Round(2).Sub(subtotal)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    gross.Add(shipping).Round(2),
	}
}

// Apply copia los totales al pedido.
func (t Totals) Apply(o *entity.Order) {
	o.Subtotal = t.Subtotal
	o.Tax = t.Tax
	o.Total = t.Total
}

// ShippingCost coste de envío según umbral de envío gratuito y método.
func ShippingCost(itemsTotal decimal.Decimal, express bool, s entity.ShippingSettings) decimal.Decimal {
	threshold := decimal.NewFromFloat(s.FreeShippingThresholdStandard)
	cost := decimal.NewFromFloat(s.StandardShippingCost)
	if express {
		threshold = decimal.NewFromFloat(s.FreeShippingThresholdExpress)
		cost = decimal.NewFromFloat(s.ExpressShippingCost)
	}
	if threshold.IsPositive() && itemsTotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero
	}
	return cost.Round(2)
}
