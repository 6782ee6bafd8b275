package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00 €", formatMoney(decimal.Zero, "€"))
	assert.Equal(t, "12,10 €", formatMoney(decimal.RequireFromString("12.1"), "€"))
	assert.Equal(t, "1.234,50 €", formatMoney(decimal.RequireFromString("1234.5"), "€"))
	assert.Equal(t, "-1.000.000,00 $", formatMoney(decimal.NewFromInt(-1000000), "$"))
}

func TestInvoicePDF(t *testing.T) {
	bookID := int64(7)
	inv := &entity.Invoice{
		Number: "F2026-0001", IssueDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CustomerName: "Ana Pérez", CustomerNIF: "12345678Z", Status: entity.InvoiceStatusPending,
		TaxRate: decimal.NewFromInt(4), Subtotal: decimal.NewFromInt(20), TaxAmount: decimal.RequireFromString("0.80"),
		ShippingCost: decimal.NewFromInt(4), Total: decimal.RequireFromString("24.80"),
		Lines: []*entity.InvoiceLine{{BookID: &bookID, Description: "Niebla", Quantity: 2, UnitPrice: decimal.RequireFromString("10.40"), Amount: decimal.RequireFromString("20.80")}},
	}
	out, err := NewMarotoPDFGenerator().InvoicePDF(inv, entity.CompanySettings{Name: "Librería El Galeón"}, entity.BillingSettings{CurrencySymbol: "€", InvoiceFooter: "Gracias"})
	require.NoError(t, err)
	assert.True(t, len(out) > 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPackingSlipPDF(t *testing.T) {
	o := &entity.Order{ID: 42, OrderDate: time.Now(), ClientName: "Luis", ShippingAddress: "Calle Mayor 1, Madrid",
		Lines: []*entity.OrderLine{{Quantity: 1, BookTitle: "La Colmena", BookCode: "000003G"}, {Quantity: 2, ExternalName: "Marcapáginas"}}}
	out, err := NewMarotoPDFGenerator().PackingSlipPDF(o, entity.CompanySettings{Name: "Librería"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
