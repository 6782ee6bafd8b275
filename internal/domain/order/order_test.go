package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, entity.OrderStatusPendingVerification, InitialStatus(entity.OrderTypeInternal))
	assert.Equal(t, entity.OrderStatusPending, InitialStatus(entity.OrderTypeIberLibro))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		tipo, from, to string
		ok             bool
	}{
		{entity.OrderTypeInternal, entity.OrderStatusPendingVerification, entity.OrderStatusPaymentPending, true},
		{entity.OrderTypeInternal, entity.OrderStatusPendingVerification, entity.OrderStatusShipped, false},
		{entity.OrderTypeInternal, entity.OrderStatusPaymentPending, entity.OrderStatusProcessing, true},
		{entity.OrderTypeInternal, entity.OrderStatusCompleted, entity.OrderStatusReturned, true},
		{entity.OrderTypeInternal, entity.OrderStatusCancelled, entity.OrderStatusProcessing, false},
		{entity.OrderTypeUniliber, entity.OrderStatusPending, entity.OrderStatusShipped, true},
		{entity.OrderTypeUniliber, entity.OrderStatusPending, entity.OrderStatusPaymentPending, false},
		{entity.OrderTypeUniliber, entity.OrderStatusPending, entity.OrderStatusPending, false},
		{entity.OrderTypeStore, entity.OrderStatusShipped, entity.OrderStatusCompleted, true},
		{entity.OrderTypeStore, entity.OrderStatusPending, "inventado", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.tipo, tc.from, tc.to), "%s %s -> %s", tc.tipo, tc.from, tc.to)
	}
}

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, entity.OrderStatusPending, DisplayStatus(entity.OrderTypeIberLibro, entity.OrderStatusPendingVerification))
	assert.Equal(t, entity.OrderStatusPendingVerification, DisplayStatus(entity.OrderTypeInternal, entity.OrderStatusPendingVerification))
	assert.Equal(t, entity.OrderStatusShipped, DisplayStatus(entity.OrderTypeIberLibro, entity.OrderStatusShipped))
}

func TestSelectableStatuses(t *testing.T) {
	interno := SelectableStatuses(entity.OrderTypeInternal)
	assert.NotContains(t, interno, entity.OrderStatusPendingVerification)
	assert.NotContains(t, interno, entity.OrderStatusPending)
	assert.Contains(t, interno, entity.OrderStatusPaymentPending)

	externo := SelectableStatuses(entity.OrderTypeUniliber)
	assert.NotContains(t, externo, entity.OrderStatusPendingVerification)
	assert.NotContains(t, externo, entity.OrderStatusPaymentPending)
	assert.Contains(t, externo, entity.OrderStatusPending)
	assert.Len(t, externo, 6)
}

func TestEffectOf(t *testing.T) {
	assert.Equal(t, StockDeduct, EffectOf(entity.OrderTypeInternal, entity.OrderStatusPendingVerification, entity.OrderStatusPaymentPending))
	assert.Equal(t, StockDeductForce, EffectOf(entity.OrderTypeIberLibro, entity.OrderStatusPending, entity.OrderStatusShipped))
	assert.Equal(t, StockNone, EffectOf(entity.OrderTypeInternal, entity.OrderStatusProcessing, entity.OrderStatusShipped))
	assert.Equal(t, StockRestore, EffectOf(entity.OrderTypeIberLibro, entity.OrderStatusShipped, entity.OrderStatusReturned))
	assert.Equal(t, StockNone, EffectOf(entity.OrderTypeIberLibro, entity.OrderStatusProcessing, entity.OrderStatusReturned))
	assert.Equal(t, StockRestore, EffectOf(entity.OrderTypeInternal, entity.OrderStatusCompleted, entity.OrderStatusReturned))
	assert.Equal(t, StockRestore, EffectOf(entity.OrderTypeInternal, entity.OrderStatusPaymentPending, entity.OrderStatusCancelled))
	assert.Equal(t, StockNone, EffectOf(entity.OrderTypeInternal, entity.OrderStatusPendingVerification, entity.OrderStatusCancelled))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Por Verificar", Label(entity.OrderStatusPendingVerification))
	assert.Equal(t, "Devolución", Label(entity.OrderStatusReturned))
	assert.Equal(t, "otro", Label("otro"))
}

func bookID(n int64) *int64 { return &n }

func TestComputeTotals(t *testing.T) {
	lines := []*entity.OrderLine{
		{BookID: bookID(1), Quantity: 2, UnitPrice: decimal.NewFromFloat(15)},
		{ExternalName: "Libro externo", Quantity: 1, UnitPrice: decimal.NewFromFloat(30.50)},
	}
	tot := ComputeTotals(lines, decimal.NewFromFloat(4.95), decimal.Zero)

	// 60.50 / 1.21 = 50.00
	assert.True(t, decimal.NewFromInt(50).Equal(tot.Subtotal), tot.Subtotal.String())
	assert.True(t, decimal.NewFromFloat(10.50).Equal(tot.Tax), tot.Tax.String())
	assert.True(t, decimal.NewFromFloat(65.45).Equal(tot.Total), tot.Total.String())
}

func TestComputeTotals_SinLineas(t *testing.T) {
	tot := ComputeTotals(nil, decimal.Zero, decimal.NewFromFloat(0.04))
	assert.True(t, tot.Total.IsZero())
	assert.True(t, tot.Subtotal.IsZero())
}

func TestShippingCost(t *testing.T) {
	s := entity.DefaultSettings().Shipping
	assert.True(t, decimal.Zero.Equal(ShippingCost(decimal.NewFromInt(60), false, s)))
	assert.True(t, decimal.NewFromFloat(4.95).Equal(ShippingCost(decimal.NewFromInt(20), false, s)))
	assert.True(t, decimal.NewFromFloat(9.95).Equal(ShippingCost(decimal.NewFromInt(60), true, s)))
}

func TestShippingZone(t *testing.T) {
	cases := map[string]string{
		"":               ZoneNational,
		"España":         ZoneNational,
		" espana ":       ZoneNational,
		"Francia":        ZoneEurope,
		"reino unido":    ZoneEurope,
		"México":         ZoneAmerica,
		"Estados Unidos": ZoneAmerica,
		"Japon":          ZoneAsia,
		"Marruecos":      ZoneOther,
	}
	for country, want := range cases {
		assert.Equal(t, want, ShippingZone(country), country)
	}
}

func TestQuoteShipping_NacionalEInternacional(t *testing.T) {
	s := entity.DefaultSettings().Shipping

	q := QuoteShipping(decimal.NewFromInt(20), "España", true, s)
	assert.Equal(t, ZoneNational, q.Zone)
	assert.Equal(t, "9.95", q.Cost.StringFixed(2))
	assert.Equal(t, 2, q.Days)

	// Internacional ignora el urgente y aplica la tarifa de la zona.
	q = QuoteShipping(decimal.NewFromInt(60), "Francia", true, s)
	assert.Equal(t, ZoneEurope, q.Zone)
	assert.Equal(t, "15.00", q.Cost.StringFixed(2))
	assert.Equal(t, 7, q.Days)

	q = QuoteShipping(decimal.NewFromInt(150), "Portugal", false, s)
	assert.True(t, q.Cost.IsZero(), "umbral gratuito de la zona")

	q = QuoteShipping(decimal.NewFromInt(100), "Chile", false, s)
	assert.Equal(t, "25.00", q.Cost.StringFixed(2))

	q = QuoteShipping(decimal.NewFromInt(100), "Marruecos", false, s)
	assert.Equal(t, ZoneOther, q.Zone)
	assert.Equal(t, "35.00", q.Cost.StringFixed(2))
}

func TestQuoteShipping_SinTarifaDeZona(t *testing.T) {
	s := entity.DefaultSettings().Shipping
	s.InternationalRates = map[string]entity.ZoneRate{"other": {Cost: 40, Days: 21}}
	q := QuoteShipping(decimal.NewFromInt(10), "Japón", false, s)
	assert.Equal(t, ZoneAsia, q.Zone)
	assert.Equal(t, "40.00", q.Cost.StringFixed(2))

	s.InternationalRates = nil
	q = QuoteShipping(decimal.NewFromInt(10), "Japón", false, s)
	assert.Equal(t, "15.00", q.Cost.StringFixed(2))
}

func TestIsNationalZone(t *testing.T) {
	s := entity.DefaultSettings().Shipping
	assert.True(t, IsNationalZone("canarias", s))
	assert.True(t, IsNationalZone("España Peninsular", s))
	assert.False(t, IsNationalZone("Ceuta", s))
}
