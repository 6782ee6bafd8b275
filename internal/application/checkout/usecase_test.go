package checkout

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

type fixture struct {
	uc       *UseCase
	orderUC  *apporder.UseCase
	store    *fakes.Tx
	payments *fakes.Payments
	notifier *fakes.Notifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	books := fakes.NewBooks(
		&entity.Book{ID: 1, Code: "000001", Title: "Niebla", Price: decimal.RequireFromString("15.00"), Stock: 4, Active: true},
		&entity.Book{ID: 2, Code: "000002", Title: "Marianela", Price: decimal.RequireFromString("40.00"), Stock: 1, Active: true},
		&entity.Book{ID: 3, Code: "000003", Title: "Descatalogado", Price: decimal.RequireFromString("9.00"), Stock: 5, Active: false},
	)
	store := fakes.NewStore(books)
	n := &fakes.Notifier{}
	settings := fakes.NewSettings()
	orderUC := apporder.NewUseCase(apporder.Deps{Tx: store, Orders: store.Orders, Books: books, Settings: settings, Notifier: n})
	payments := fakes.NewPayments()
	uc := NewUseCase(Deps{
		Tx:          store,
		Cart:        store.Cart,
		Books:       books,
		Orders:      store.Orders,
		OrderUC:     orderUC,
		Settings:    settings,
		Gateway:     payments,
		Idempotency: fakes.NewIdempotency(),
		Notifier:    n,
	})
	return &fixture{uc: uc, orderUC: orderUC, store: store, payments: payments, notifier: n}
}

func TestNormalizeCartItems(t *testing.T) {
	got := NormalizeCartItems([]dto.CartItemRequest{
		{BookID: 2, Quantity: 1},
		{BookID: 1, Quantity: 2},
		{BookID: 2, Quantity: 3},
		{BookID: 0, Quantity: 1},
		{BookID: -4, Quantity: 1},
		{BookID: 5, Quantity: 0},
		{BookID: 6, Quantity: 10001},
	})
	assert.Equal(t, []dto.CartItemRequest{{BookID: 1, Quantity: 2}, {BookID: 2, Quantity: 4}}, got)
}

func TestReplaceCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 2}, {BookID: 3, Quantity: 1}, {BookID: 99, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1, "libros inactivos o inexistentes se descartan")
	assert.Equal(t, "30.00", cart.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "30.00", cart.Total.StringFixed(2))
	assert.Equal(t, 2, cart.Count)

	cart, err = f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 2, Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2), cart.Items[0].BookID)

	cart, err = f.uc.ReplaceCart(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrder_CreaPedidoYVaciaCarrito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 2}})
	require.NoError(t, err)

	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderTypeInternal, o.Type)
	assert.Equal(t, entity.OrderStatusPendingVerification, o.Status)
	assert.Equal(t, "u1", o.UserID)
	// 30 < 50 de umbral: envío estándar 4.95
	assert.Equal(t, "4.95", o.ShippingCost.StringFixed(2))
	assert.Equal(t, "34.95", o.Total.StringFixed(2))

	cart, err := f.uc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 4, f.store.Books.Stock(1), "el stock se descuenta al verificar, no al crear")
	require.Len(t, f.notifier.Events, 1)
}

func TestPlaceOrder_EnvioGratisSobreUmbral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 4}})
	require.NoError(t, err)

	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.NoError(t, err)
	assert.True(t, o.ShippingCost.IsZero())
}

func TestPlaceOrder_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "carrito vacío")

	_, err = f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 2, Quantity: 3}})
	require.NoError(t, err)
	_, err = f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	cart, err := f.uc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "el carrito se conserva si falla")
}

func TestPlaceOrder_RegistraAuditoria(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 1}})
	require.NoError(t, err)

	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.NoError(t, err)
	audit := f.store.Audit.Last()
	require.NotNil(t, audit)
	assert.Equal(t, "pedidos", audit.Table)
	assert.Equal(t, "INSERT", audit.Action)
	assert.Equal(t, strconv.FormatInt(o.ID, 10), audit.RecordID)
	assert.Equal(t, "u1", audit.UserID)
	assert.Equal(t, entity.OrderStatusPendingVerification, audit.NewValue["estado"])
}

func TestPlaceOrder_LibroRetiradoRechazaYConservaCarrito(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Cart.Upsert(ctx, "u1", 1, 1))
	require.NoError(t, f.store.Cart.Upsert(ctx, "u1", 3, 1))

	_, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Descatalogado")

	assert.Len(t, f.store.Cart.Rows["u1"], 2, "el carrito no se vacía")
	assert.Empty(t, f.store.Orders.Items)
	assert.Empty(t, f.store.Audit.Entries)
}

func TestPlaceOrder_EnvioInternacionalPorZona(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 4}})
	require.NoError(t, err)

	// 60 supera el umbral nacional pero no el europeo (150).
	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{
		ShippingAddress: "Rue de Rivoli 10, Paris",
		ShippingMethod:  "express",
		Country:         "Francia",
	})
	require.NoError(t, err)
	assert.Equal(t, "15.00", o.ShippingCost.StringFixed(2))
	assert.Equal(t, "75.00", o.Total.StringFixed(2))
	assert.Equal(t, "Rue de Rivoli 10, Paris, Francia", o.ShippingAddress)
	assert.Equal(t, "europe", f.store.Audit.Last().NewValue["zona_envio"])
}

func TestPlaceOrder_ZonaNacional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 1}})
	require.NoError(t, err)

	_, err = f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Real 3, Ceuta", Zone: "Ceuta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Triana 3, Las Palmas", Zone: "Canarias", Country: "España"})
	require.NoError(t, err)
	assert.Equal(t, "4.95", o.ShippingCost.StringFixed(2))
	assert.Equal(t, "Calle Triana 3, Las Palmas (Canarias), España", o.ShippingAddress)
}

func TestPlaceOrder_PrecioConDescuentoVigente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := int64(7)
	f.uc.discounts = &fakes.DiscountRules{Rules: []*entity.DiscountRule{
		{ID: 1, Percent: decimal.NewFromInt(20), Scope: entity.DiscountScopeGlobal, Active: true},
		{ID: 2, Percent: decimal.NewFromInt(50), Scope: entity.DiscountScopeCategory, CategoryID: &cat, Active: true},
	}}
	cart, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "12.00", cart.Items[0].Price.StringFixed(2))
	assert.Equal(t, "15.00", cart.Items[0].ListPrice.StringFixed(2))
	assert.Equal(t, "24.00", cart.Total.StringFixed(2))

	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.NoError(t, err)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "12.00", o.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "28.95", o.Total.StringFixed(2))
}

func TestPlaceOrder_FalloDescuentosNoCreaPedido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 1}})
	require.NoError(t, err)
	f.uc.discounts = &fakes.DiscountRules{Err: errors.New("db caída")}

	_, err = f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.Error(t, err)
	assert.Empty(t, f.store.Orders.Items)
}

// pedidoVerificado crea un pedido web del usuario y lo deja en payment_pending.
func (f *fixture) pedidoVerificado(t *testing.T, userID string) int64 {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, userID, []dto.CartItemRequest{{BookID: 1, Quantity: 2}})
	require.NoError(t, err)
	o, err := f.uc.PlaceOrder(ctx, userID, dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1, Madrid"})
	require.NoError(t, err)
	_, err = f.orderUC.ChangeStatus(ctx, o.ID, entity.OrderStatusPaymentPending, "", "admin")
	require.NoError(t, err)
	return o.ID
}

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.pedidoVerificado(t, "u1")

	res, err := f.uc.CreatePaymentIntent(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "34.95", res.Amount.StringFixed(2))
	assert.NotEmpty(t, res.ClientSecret)

	pi := f.payments.Intents[res.PaymentIntentID]
	assert.Equal(t, strconv.FormatInt(id, 10), pi.Metadata["order_id"])
	assert.Equal(t, "u1", pi.Metadata["user_id"])

	o, err := f.store.Orders.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.PaymentIntentID, o.StripePaymentID)

	_, err = f.uc.CreatePaymentIntent(ctx, "otro", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	st, err := f.uc.PaymentStatus(ctx, "u1", res.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, "requires_payment_method", st.Status)
	_, err = f.uc.PaymentStatus(ctx, "otro", res.PaymentIntentID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePaymentIntent_EstadoIncorrecto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.ReplaceCart(ctx, "u1", []dto.CartItemRequest{{BookID: 1, Quantity: 1}})
	require.NoError(t, err)
	o, err := f.uc.PlaceOrder(ctx, "u1", dto.PlaceOrderRequest{ShippingAddress: "Calle Mayor 1"})
	require.NoError(t, err)

	_, err = f.uc.CreatePaymentIntent(ctx, "u1", o.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestHandlePaymentEvent_PagoConfirmadoEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.pedidoVerificado(t, "u1")
	pi, err := f.uc.CreatePaymentIntent(ctx, "u1", id)
	require.NoError(t, err)

	ev := &ports.PaymentEvent{
		ID:     "evt_1",
		Type:   ports.EventPaymentSucceeded,
		Intent: &ports.PaymentIntent{ID: pi.PaymentIntentID, Metadata: map[string]string{"order_id": strconv.FormatInt(id, 10)}},
	}
	require.NoError(t, f.uc.HandlePaymentEvent(ctx, ev))
	o, _ := f.store.Orders.GetByID(ctx, id)
	assert.Equal(t, entity.OrderStatusProcessing, o.Status)
	events := len(f.notifier.Events)

	// Reentrega del mismo evento: sin efectos.
	require.NoError(t, f.uc.HandlePaymentEvent(ctx, ev))
	assert.Len(t, f.notifier.Events, events)
}

func TestHandlePaymentEvent_PagoFallidoCancelaYRepone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.pedidoVerificado(t, "u1")
	assert.Equal(t, 2, f.store.Books.Stock(1))
	pi, err := f.uc.CreatePaymentIntent(ctx, "u1", id)
	require.NoError(t, err)

	// Sin order_id en metadata: se resuelve por el intent guardado.
	ev := &ports.PaymentEvent{
		ID:     "evt_2",
		Type:   ports.EventPaymentFailed,
		Intent: &ports.PaymentIntent{ID: pi.PaymentIntentID, LastError: "Tarjeta rechazada"},
	}
	require.NoError(t, f.uc.HandlePaymentEvent(ctx, ev))

	o, _ := f.store.Orders.GetByID(ctx, id)
	assert.Equal(t, entity.OrderStatusCancelled, o.Status)
	assert.Equal(t, "Pago fallido: Tarjeta rechazada", o.Notes)
	assert.Equal(t, 4, f.store.Books.Stock(1))
}

func TestHandleWebhook_FirmaInvalidaYEventosIgnorados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.uc.HandleWebhook(ctx, []byte(`{}`), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	f.payments.Event = &ports.PaymentEvent{ID: "evt_3", Type: "charge.refunded"}
	assert.NoError(t, f.uc.HandleWebhook(ctx, []byte(`{}`), "t=1,v1=abc"))
}
