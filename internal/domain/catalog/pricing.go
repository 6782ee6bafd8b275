package catalog

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PriceWithoutTax quita el IVA (ratePct en porcentaje) a un precio con IVA incluido, redondeado a 2 decimales.
func PriceWithoutTax(price decimal.Decimal, ratePct decimal.Decimal) decimal.Decimal {
	if ratePct.IsZero() {
		return price.Round(2)
	}
	return price.Div(decimal.NewFromInt(1).Add(ratePct.Div(hundred))).Round(2)
}

// TaxAmount parte de IVA contenida en un precio con IVA incluido.
func TaxAmount(price decimal.Decimal, ratePct decimal.Decimal) decimal.Decimal {
	return price.Round(2).Sub(PriceWithoutTax(price, ratePct))
}

// ApplyDiscount precio tras aplicar pct (porcentaje), redondeado a 2 decimales.
// Un porcentaje fuera de (0, 100] deja el precio intacto.
func ApplyDiscount(price decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		return price
	}
	return price.Sub(price.Mul(pct).Div(hundred)).Round(2)
}
