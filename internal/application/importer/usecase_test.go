package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

const uniliberText = `Referencia: 02273892
El nombre de la rosa
Umberto Eco
Tapa blanda
Precio total
33,00 €
Nombre: Laura Gómez Ruiz
Dirección: Calle Mayor 5, 2ºB
Población: Granada
Provincia: Granada
C. Postal: 18600 (Granada)
País: España
Email: laura@example.com
Teléfono: 958000000
Móvil: 600111222`

const genericText = `Cliente: Marta López
Dirección: Calle Luna 3, Sevilla
Teléfono: 611222333
Pago: Bizum
Envío: GLS
2 x Don Quijote - 12,50€`

type fixture struct {
	uc      *UseCase
	clients *fakes.Clients
	store   *fakes.Tx
}

func newFixture(books ...*entity.Book) *fixture {
	bookRepo := fakes.NewBooks(books...)
	store := fakes.NewStore(bookRepo)
	clients := fakes.NewClients()
	orderUC := apporder.NewUseCase(apporder.Deps{Tx: store, Orders: store.Orders, Books: bookRepo, Clients: clients, Settings: fakes.NewSettings()})
	uc := NewUseCase(bookRepo, usecase.NewClientUseCase(clients), orderUC, nil)
	return &fixture{uc: uc, clients: clients, store: store}
}

func TestParse_OrigenInvalido(t *testing.T) {
	_, err := Parse("amazon", "texto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Parse("abebooks", "<roto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPreview_ResuelveReferenciaContraCatalogo(t *testing.T) {
	f := newFixture(&entity.Book{ID: 7, Code: "02273892", Title: "El nombre de la rosa", Price: decimal.RequireFromString("28.00"), Stock: 1, Active: true})

	previews, err := f.uc.Preview(context.Background(), dto.ImportRequest{Source: "uniliber", Text: uniliberText})
	require.NoError(t, err)
	require.Len(t, previews, 1)
	p := previews[0]
	assert.Equal(t, "Laura Gómez Ruiz", p.ClientName)
	assert.Equal(t, "600111222", p.Phone)
	assert.Equal(t, "Calle Mayor 5, 2ºB, 18600, Granada, España", p.ShippingAddress)
	require.Len(t, p.Lines, 1)
	assert.True(t, p.Lines[0].Found)
	assert.Equal(t, int64(7), *p.Lines[0].BookID)
	assert.Equal(t, "28.00", p.Lines[0].UnitPrice.StringFixed(2))
	assert.Empty(t, p.MatchedClients)
}

func TestImport_UniliberCreaClienteYPedido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.uc.Import(ctx, dto.ImportRequest{Source: "uniliber", Text: uniliberText}, "admin")
	require.NoError(t, err)
	assert.True(t, res.ClientCreated)
	require.Len(t, res.Orders, 1)

	o := res.Orders[0]
	assert.Equal(t, entity.OrderTypeUniliber, o.Type)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, "02273892", o.ExternalRef)
	assert.Equal(t, "Calle Mayor 5, 2ºB, 18600, Granada, España", o.ShippingAddress)
	require.Len(t, o.Lines, 1)
	assert.True(t, o.Lines[0].External)
	assert.Equal(t, "El nombre de la rosa - Umberto Eco (Ref: 02273892)", o.Lines[0].Name)
	assert.Equal(t, "33.00", o.Total.StringFixed(2))

	clients, _ := f.clients.ListAll(ctx)
	require.Len(t, clients, 1)
	c := clients[0]
	assert.Equal(t, "Laura", c.Name)
	assert.Equal(t, "Gómez Ruiz", c.Surname)
	assert.Equal(t, "18600", c.PostalCode)
	assert.Equal(t, "Cliente importado de Uniliber (Ref Pedido: 02273892)", c.Notes)
	assert.Equal(t, c.ID, o.ClientID)

	assert.Equal(t, "958000000", c.Phone)
	assert.Equal(t, "600111222", c.Mobile)

	// La misma referencia no se importa dos veces.
	res, err = f.uc.Import(ctx, dto.ImportRequest{Source: "uniliber", Text: uniliberText}, "admin")
	require.NoError(t, err)
	assert.False(t, res.ClientCreated)
	assert.Empty(t, res.Orders)
	assert.Equal(t, []string{"02273892"}, res.Skipped)
	assert.Len(t, f.store.Orders.Items, 1)
	clients, _ = f.clients.ListAll(ctx)
	assert.Len(t, clients, 1)
}

func TestImport_MismoClienteOtraReferenciaReutilizaCliente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Import(ctx, dto.ImportRequest{Source: "uniliber", Text: uniliberText}, "admin")
	require.NoError(t, err)

	other := strings.Replace(uniliberText, "Referencia: 02273892", "Referencia: 02273893", 1)
	res, err := f.uc.Import(ctx, dto.ImportRequest{Source: "uniliber", Text: other}, "admin")
	require.NoError(t, err)
	assert.False(t, res.ClientCreated)
	require.Len(t, res.Orders, 1)
	clients, _ := f.clients.ListAll(ctx)
	assert.Len(t, clients, 1)
}

func TestImport_GenericoEsVentaDeTienda(t *testing.T) {
	f := newFixture()
	res, err := f.uc.Import(context.Background(), dto.ImportRequest{Source: "generico", Text: genericText}, "admin")
	require.NoError(t, err)
	require.Len(t, res.Orders, 1)

	o := res.Orders[0]
	assert.Equal(t, entity.OrderTypeStore, o.Type)
	assert.Equal(t, entity.PaymentBizum, o.PaymentMethod)
	assert.Equal(t, "GLS", o.Carrier)
	assert.Equal(t, "Calle Luna 3, Sevilla", o.ShippingAddress)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.Equal(t, "25.00", o.Total.StringFixed(2))
}

func TestImport_SinProductos(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Import(context.Background(), dto.ImportRequest{Source: "generico", Text: "Cliente: Nadie\nNotas: sin libros"}, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func abeBooksOrder(id, buyer, items string) string {
	return `<purchaseOrder id="` + id + `" status="Ordered">
      <buyer>
        <email>` + strings.ToLower(strings.ReplaceAll(buyer, " ", ".")) + `@example.com</email>
        <mailingAddress><name>` + buyer + `</name><street>1 High St</street><city>Bath</city><country>United Kingdom</country></mailingAddress>
      </buyer>
      <purchaseOrderItemList>` + items + `</purchaseOrderItemList>
    </purchaseOrder>`
}

const abeBooksItem = `<purchaseOrderItem id="1"><book><vendorKey>009999X</vendorKey><title>Ficciones</title><author>Borges</author><price currency="EUR">18.00</price></book></purchaseOrderItem>`

func abeBooksXML(orders ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><orderUpdateResponse version="1.1"><purchaseOrderList>` +
		strings.Join(orders, "") + `</purchaseOrderList></orderUpdateResponse>`
}

func TestImport_LoteConBorradorInvalidoNoCreaNada(t *testing.T) {
	f := newFixture()
	text := abeBooksXML(
		abeBooksOrder("900001", "John Smith", abeBooksItem),
		abeBooksOrder("900002", "Jane Doe", ""),
	)

	_, err := f.uc.Import(context.Background(), dto.ImportRequest{Source: "abebooks", Text: text}, "admin")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "900002")
	assert.Empty(t, f.store.Orders.Items)
	assert.Empty(t, f.clients.Items, "no se crean clientes si el lote no es válido")
}

func TestImport_FalloAlGuardarDeshaceTodoElLote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	text := abeBooksXML(
		abeBooksOrder("900001", "John Smith", abeBooksItem),
		abeBooksOrder("900002", "Jane Doe", abeBooksItem),
	)
	f.store.Orders.OnCreate = func(o *entity.Order) error {
		if o.ExternalRef == "900002" {
			return errors.New("conexión perdida")
		}
		return nil
	}

	_, err := f.uc.Import(ctx, dto.ImportRequest{Source: "abebooks", Text: text}, "admin")
	require.Error(t, err)
	assert.Empty(t, f.store.Orders.Items, "el primer pedido también se deshace")
	assert.Empty(t, f.store.Audit.Entries)
	assert.Equal(t, 1, f.store.RolledBack)

	// El reintento crea los dos pedidos y reutiliza los clientes ya dados de alta.
	f.store.Orders.OnCreate = nil
	res, err := f.uc.Import(ctx, dto.ImportRequest{Source: "abebooks", Text: text}, "admin")
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	assert.False(t, res.ClientCreated)
	assert.Equal(t, entity.OrderTypeAbeBooks, res.Orders[0].Type)
	assert.Len(t, f.store.Orders.Items, 2)
	assert.Len(t, f.clients.Items, 2)
}

func TestImport_ReferenciaRepetidaEnElMismoTexto(t *testing.T) {
	f := newFixture()
	text := abeBooksXML(
		abeBooksOrder("900001", "John Smith", abeBooksItem),
		abeBooksOrder("900001", "John Smith", abeBooksItem),
	)
	res, err := f.uc.Import(context.Background(), dto.ImportRequest{Source: "abebooks", Text: text}, "admin")
	require.NoError(t, err)
	assert.Len(t, res.Orders, 1)
	assert.Equal(t, []string{"900001"}, res.Skipped)
}
