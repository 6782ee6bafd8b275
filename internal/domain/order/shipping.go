package order

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// Zonas de envío. Las internacionales son las claves de ShippingSettings.InternationalRates.
const (
	ZoneNational = "national"
	ZoneEurope   = "europe"
	ZoneAmerica  = "america"
	ZoneAsia     = "asia"
	ZoneOther    = "other"
)

// fallbackInternationalCost si no hay tarifas internacionales configuradas.
var fallbackInternationalCost = decimal.NewFromInt(15)

var countryZones = buildCountryZones(map[string][]string{
	ZoneNational: {"España", "Spain", "ES"},
	ZoneEurope: {
		"Alemania", "Germany", "Austria", "Bélgica", "Belgium", "Dinamarca", "Denmark", "Francia", "France",
		"Grecia", "Greece", "Holanda", "Países Bajos", "Netherlands", "Hungría", "Hungary", "Irlanda", "Ireland",
		"Italia", "Italy", "Noruega", "Norway", "Polonia", "Poland", "Portugal", "Reino Unido", "United Kingdom", "UK",
		"República Checa", "Czech Republic", "Rumania", "Romania", "Suecia", "Sweden", "Suiza", "Switzerland",
	},
	ZoneAmerica: {
		"Argentina", "Bolivia", "Brasil", "Canadá", "Chile", "Colombia", "Costa Rica", "Ecuador", "Estados Unidos",
		"México", "Panamá", "Paraguay", "Perú", "Uruguay", "Venezuela",
	},
	ZoneAsia: {
		"China", "Corea del Sur", "Filipinas", "Hong Kong", "India", "Indonesia", "Japón", "Malasia", "Singapur",
		"Tailandia", "Taiwán", "Vietnam",
	},
})

func buildCountryZones(in map[string][]string) map[string]string {
	out := map[string]string{}
	for zone, countries := range in {
		for _, c := range countries {
			out[textnorm.Fold(c)] = zone
		}
	}
	return out
}

// ShippingZone zona de envío de un país. Sin país se asume envío nacional;
// un país desconocido va a "other".
func ShippingZone(country string) string {
	key := textnorm.Fold(country)
	if key == "" {
		return ZoneNational
	}
	if z, ok := countryZones[key]; ok {
		return z
	}
	return ZoneOther
}

// ShippingQuote coste y plazo de envío para una zona.
type ShippingQuote struct {
	Zone string
	Cost decimal.Decimal
	Days int
}

// QuoteShipping calcula el envío de un pedido. El envío nacional distingue
// estándar y urgente; el internacional usa la tarifa de la zona (o "other")
// con su propio umbral de envío gratuito.
func QuoteShipping(itemsTotal decimal.Decimal, country string, express bool, s entity.ShippingSettings) ShippingQuote {
	zone := ShippingZone(country)
	if zone == ZoneNational {
		days := s.EstimatedDeliveryDays.Standard
		if express {
			days = s.EstimatedDeliveryDays.Express
		}
		return ShippingQuote{Zone: zone, Cost: ShippingCost(itemsTotal, express, s), Days: days}
	}
	rate, ok := s.InternationalRates[zone]
	if !ok {
		rate, ok = s.InternationalRates[ZoneOther]
	}
	if !ok {
		return ShippingQuote{Zone: zone, Cost: fallbackInternationalCost, Days: s.EstimatedDeliveryDays.International}
	}
	q := ShippingQuote{Zone: zone, Cost: decimal.NewFromFloat(rate.Cost).Round(2), Days: rate.Days}
	if threshold := decimal.NewFromFloat(rate.FreeThreshold); threshold.IsPositive() && itemsTotal.GreaterThanOrEqual(threshold) {
		q.Cost = decimal.Zero
	}
	return q
}

// IsNationalZone indica si name es una de las zonas nacionales configuradas.
func IsNationalZone(name string, s entity.ShippingSettings) bool {
	key := textnorm.Fold(name)
	for _, z := range s.ShippingZones {
		if textnorm.Fold(z) == key {
			return true
		}
	}
	return false
}
