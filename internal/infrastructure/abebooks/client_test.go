package abebooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/config"
)

func TestBuildInventoryRequest(t *testing.T) {
	items := []ports.InventoryItem{
		{Action: ports.InventoryAdd, Book: &entity.Book{ID: 1, Code: "000012G", Title: "Niebla", Price: decimal.RequireFromString("15.5"), Stock: 2, Condition: "como nuevo", Description: "Primera\n  edición"}},
		{Action: ports.InventoryDelete, Book: &entity.Book{ID: 9}},
	}
	raw, err := BuildInventoryRequest("libreria", "key", items)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	assert.Equal(t, "bookupdate", doc.FindElement("//action").SelectAttrValue("name", ""))
	books := doc.FindElements("//AbebookList/Abebook")
	require.Len(t, books, 2)

	assert.Equal(t, "add", text(books[0], "transactionType"))
	assert.Equal(t, "000012G", text(books[0], "vendorBookID"))
	assert.Equal(t, "Unknown", text(books[0], "author"))
	assert.Equal(t, "15.50", text(books[0], "price"))
	assert.Equal(t, "Fine", text(books[0], "bookCondition"))
	assert.Equal(t, "Primera edición", text(books[0], "description"))

	assert.Equal(t, "delete", text(books[1], "transactionType"))
	assert.Equal(t, "9", text(books[1], "vendorBookID"))
	assert.Nil(t, books[1].FindElement("title"))
}

func TestParseInventoryResponse(t *testing.T) {
	raw := `<?xml version="1.0"?>
<inventoryUpdateResponse><AbebookList>
  <Abebook><transactionType>add</transactionType><vendorBookID>000012G</vendorBookID><code>600</code><message>Add/Update successful</message></Abebook>
  <Abebook><transactionType>add</transactionType><vendorBookID>000013G</vendorBookID><error><code>404</code><message>Invalid price</message></error></Abebook>
</AbebookList></inventoryUpdateResponse>`
	res, err := ParseInventoryResponse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].Success)
	assert.False(t, res[1].Success)
	assert.Equal(t, "404", res[1].Code)
	assert.Equal(t, "Invalid price", res[1].Message)

	_, err = ParseInventoryResponse([]byte(`<inventoryUpdateResponse><requestError><code>100</code><message>Bad login</message></requestError></inventoryUpdateResponse>`))
	assert.ErrorContains(t, err, "Bad login")
}

func TestClient_FetchNewOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `name="getAllNewOrders"`)
		assert.Contains(t, string(body), "<username>libreria</username>")
		_, _ = w.Write([]byte(`<orderUpdateResponse><purchaseOrderList>
  <purchaseOrder id="777" status="Ordered">
    <orderDate><date><year>2026</year><month>3</month><day>2</day></date></orderDate>
    <buyer><email>buyer@example.com</email><mailingAddress><name>John Smith</name><country>UK</country></mailingAddress></buyer>
    <purchaseOrderItemList><purchaseOrderItem><book><vendorKey>000012G</vendorKey><title>Niebla</title><price>15.50</price></book></purchaseOrderItem></purchaseOrderItemList>
  </purchaseOrder></purchaseOrderList></orderUpdateResponse>`))
	}))
	defer srv.Close()

	c, err := NewClient(config.AbeBooksConfig{Username: "libreria", APIKey: "k", Endpoint: srv.URL, OrdersEndpoint: srv.URL})
	require.NoError(t, err)
	orders, err := c.FetchNewOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "777", orders[0].ExternalID)
	assert.Equal(t, entity.AbeBooksStatusNew, orders[0].Status)
	assert.Equal(t, "buyer@example.com", orders[0].Customer.Email)
}

func TestClient_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Repeat("x", 10)))
	}))
	defer srv.Close()

	c, err := NewClient(config.AbeBooksConfig{Username: "u", APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)
	_, err = c.UpdateInventory(context.Background(), []ports.InventoryItem{{Action: ports.InventoryDelete, Book: &entity.Book{ID: 1}}})
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestNewClient_SinCredenciales(t *testing.T) {
	_, err := NewClient(config.AbeBooksConfig{})
	assert.Error(t, err)
}
