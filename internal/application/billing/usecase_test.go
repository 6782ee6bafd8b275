package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

type sentInvoice struct {
	number string
	pdf    string
	to     string
}

type recordingSender struct{ sent []sentInvoice }

func (s *recordingSender) SendInvoice(_ context.Context, inv *entity.Invoice, pdf []byte, to string) error {
	s.sent = append(s.sent, sentInvoice{number: inv.Number, pdf: string(pdf), to: to})
	return nil
}

type fixture struct {
	uc       *UseCase
	orders   *fakes.Orders
	invoices *fakes.Invoices
	sender   *recordingSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	books := fakes.NewBooks(&entity.Book{ID: 1, Title: "La Regenta", Price: decimal.NewFromInt(20), Stock: 5, Active: true})
	clients := fakes.NewClients(&entity.Client{
		ID: "c1", Name: "Ana", Surname: "Pérez", NIF: "12345678Z", Email: "ana@test.es",
		Address: "C/ Mayor 1", PostalCode: "28001", City: "Madrid", Country: "España",
	})
	f := &fixture{orders: fakes.NewOrders(books), invoices: fakes.NewInvoices(), sender: &recordingSender{}}
	f.uc = NewUseCase(Deps{
		Invoices: f.invoices, Orders: f.orders, Clients: clients,
		Settings: fakes.NewSettings(), PDF: fakes.PDF{}, Sender: f.sender,
	})
	f.uc.now = func() time.Time { return time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) order(t *testing.T, clientID string) *entity.Order {
	t.Helper()
	id := int64(1)
	o := &entity.Order{
		ClientID: clientID, ClientName: "Ana Pérez", Type: entity.OrderTypeStore, Status: entity.OrderStatusProcessing,
		PaymentMethod: entity.PaymentCash, ShippingCost: decimal.NewFromInt(5),
		Lines: []*entity.OrderLine{
			{BookID: &id, Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
			{ExternalName: "Marcapáginas", Quantity: 1, UnitPrice: decimal.RequireFromString("1.50")},
		},
	}
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "F2026-00001", FormatNumber("F", 2026, 1))
	assert.Equal(t, "FAC2025-12345", FormatNumber("FAC", 2025, 12345))
}

func TestCreateFromOrder_CopiaClienteLineasYTotales(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, "c1")

	inv, err := f.uc.CreateFromOrder(context.Background(), dto.CreateInvoiceRequest{OrderID: o.ID, Notes: "Gracias"})
	require.NoError(t, err)

	assert.Equal(t, "F2026-00001", inv.Number)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "Ana Pérez", inv.CustomerName)
	assert.Equal(t, "12345678Z", inv.CustomerNIF)
	assert.Equal(t, "ana@test.es", inv.CustomerEmail)
	assert.Equal(t, "C/ Mayor 1, 28001 Madrid, España", inv.Address)
	assert.True(t, inv.TaxRate.Equal(decimal.NewFromInt(21)))
	// 41.50 con IVA incluido + 5 de envío.
	assert.Equal(t, "34.30", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "7.20", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "46.50", inv.Total.StringFixed(2))
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "La Regenta", inv.Lines[0].Description)
	assert.Equal(t, "40", inv.Lines[0].Amount.String())
	assert.Equal(t, "Marcapáginas", inv.Lines[1].Description)

	o2 := f.order(t, "")
	inv2, err := f.uc.CreateFromOrder(context.Background(), dto.CreateInvoiceRequest{OrderID: o2.ID})
	require.NoError(t, err)
	assert.Equal(t, "F2026-00002", inv2.Number)
}

func TestCreateFromOrder_UnaFacturaPorPedido(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, "c1")
	_, err := f.uc.CreateFromOrder(context.Background(), dto.CreateInvoiceRequest{OrderID: o.ID})
	require.NoError(t, err)

	_, err = f.uc.CreateFromOrder(context.Background(), dto.CreateInvoiceRequest{OrderID: o.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateFromOrder_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	o := f.order(t, "c1")
	require.NoError(t, f.orders.UpdateStatus(ctx, o.ID, entity.OrderStatusCancelled, ""))
	_, err = f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatus_AnuladaEsInmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, "c1")
	inv, err := f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
	require.NoError(t, err)

	got, err := f.uc.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)

	_, err = f.uc.UpdateStatus(ctx, inv.ID, "Borrador")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusVoid)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusPending)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, f.uc.SendByEmail(ctx, inv.ID, ""), domain.ErrConflict)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		o := f.order(t, "c1")
		_, err := f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
		require.NoError(t, err)
	}
	_, err := f.uc.UpdateStatus(ctx, 1, entity.InvoiceStatusPaid)
	require.NoError(t, err)

	out, err := f.uc.List(ctx, entity.InvoiceStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, "F2026-00003", out.Items[0].Number)

	_, err = f.uc.List(ctx, "Otro", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPDFYEnvioPorEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, "c1")
	inv, err := f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
	require.NoError(t, err)

	data, name, err := f.uc.PDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_F2026-00001.pdf", name)
	assert.Equal(t, "%PDF factura F2026-00001", string(data))

	require.NoError(t, f.uc.SendByEmail(ctx, inv.ID, ""))
	require.NoError(t, f.uc.SendByEmail(ctx, inv.ID, " otro@test.es "))
	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, "ana@test.es", f.sender.sent[0].to)
	assert.Equal(t, "otro@test.es", f.sender.sent[1].to)
	assert.Equal(t, "%PDF factura F2026-00001", f.sender.sent[0].pdf)

	_, _, err = f.uc.PDF(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendByEmail_SinDestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, "")
	inv, err := f.uc.CreateFromOrder(ctx, dto.CreateInvoiceRequest{OrderID: o.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.SendByEmail(ctx, inv.ID, ""), domain.ErrInvalidInput)
}
