package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "001234", FormatCode("1234", "almacén"))
	assert.Equal(t, "001234G", FormatCode("1234", "Galeón"))
	assert.Equal(t, "000042Ab", FormatCode("42", "abebooks"))
	assert.Equal(t, "000007UL", FormatCode("7", "Uniliber"))
	assert.Equal(t, "1234567H", FormatCode("1234567", "Hortaleza"))
	assert.Equal(t, "000010", FormatCode("10", "desconocida"))
}

func TestBaseNumber(t *testing.T) {
	cases := map[string]string{
		"001234G":  "001234",
		"001234Ab": "001234",
		"000007UL": "000007",
		"000099AG": "000099",
		"123456":   "123456",
		"":         "",
		"ABC":      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, BaseNumber(in), in)
	}
}

func TestLocationFromCode(t *testing.T) {
	assert.Equal(t, LocationAbeBooks, LocationFromCode("001234Ab"))
	assert.Equal(t, LocationUniliber, LocationFromCode("001234UL"))
	assert.Equal(t, LocationGeneral, LocationFromCode("001234AG"))
	assert.Equal(t, LocationGaleon, LocationFromCode("001234G"))
	assert.Equal(t, LocationHortaleza, LocationFromCode("001234H"))
	assert.Equal(t, LocationReina, LocationFromCode("001234R"))
	assert.Equal(t, LocationWarehouse, LocationFromCode("001234"))
	assert.Equal(t, "", LocationFromCode("12X4"))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "001234G", NormalizeCode("001234G", "galeon"))
	assert.Equal(t, "001234H", NormalizeCode("001234G", "hortaleza"))
	assert.Equal(t, "001234", NormalizeCode("001234Ab", "almacen"))
	assert.True(t, ValidateCodeForLocation("000001R", "Reina"))
	assert.False(t, ValidateCodeForLocation("00A001R", "Reina"))
}

func TestMarketplaceCondition(t *testing.T) {
	assert.Equal(t, "New", MarketplaceCondition("Nuevo"))
	assert.Equal(t, "Fine", MarketplaceCondition("como nuevo"))
	assert.Equal(t, "Good", MarketplaceCondition("leído"))
	assert.Equal(t, "Fair", MarketplaceCondition("regular"))
	assert.Equal(t, "Poor", MarketplaceCondition("malo"))
	assert.Equal(t, "Good", MarketplaceCondition(""))
}

func TestPriceWithoutTax(t *testing.T) {
	p := PriceWithoutTax(decimal.NewFromFloat(12.10), decimal.NewFromInt(21))
	assert.True(t, decimal.NewFromInt(10).Equal(p), p.String())

	libro := PriceWithoutTax(decimal.NewFromFloat(20.80), decimal.NewFromInt(4))
	assert.True(t, decimal.NewFromInt(20).Equal(libro), libro.String())

	iva := TaxAmount(decimal.NewFromFloat(12.10), decimal.NewFromInt(21))
	assert.True(t, decimal.NewFromFloat(2.10).Equal(iva), iva.String())
}

func TestApplyDiscount(t *testing.T) {
	p := ApplyDiscount(decimal.NewFromFloat(19.99), decimal.NewFromInt(15))
	assert.True(t, decimal.NewFromFloat(16.99).Equal(p), p.String())

	sin := ApplyDiscount(decimal.NewFromInt(10), decimal.Zero)
	assert.True(t, decimal.NewFromInt(10).Equal(sin))
	fuera := ApplyDiscount(decimal.NewFromInt(10), decimal.NewFromInt(120))
	assert.True(t, decimal.NewFromInt(10).Equal(fuera))
	total := ApplyDiscount(decimal.NewFromInt(10), decimal.NewFromInt(100))
	assert.True(t, total.IsZero())
}

func TestISBN(t *testing.T) {
	assert.Equal(t, "9788437604947", NormalizeISBN("978-84-376-0494-7"))
	assert.Equal(t, "843760494X", NormalizeISBN(" 84 376 0494 x"))
	assert.True(t, IsValidISBNLength("9788437604947"))
	assert.False(t, IsValidISBNLength("97884376"))

	assert.True(t, IsSpanishISBN("9788437604947"))
	assert.True(t, IsSpanishISBN("843760494X"))
	assert.False(t, IsSpanishISBN("9780141439518"))
	assert.False(t, IsSpanishISBN("8437604947123"), "el prefijo 84 solo vale para ISBN-10")
}
