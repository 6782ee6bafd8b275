// Package abebooks cliente de la API XML de AbeBooks: actualización de
// inventario y descarga de pedidos nuevos.
package abebooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain/catalog"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/marketplace"
	"github.com/jhoicas/libreria-api/pkg/config"
)

var _ ports.MarketplaceClient = (*Client)(nil)

// Códigos de respuesta de inventario que indican éxito.
var successCodes = map[string]bool{"600": true, "601": true}

// Client implementa ports.MarketplaceClient sobre HTTP + XML.
type Client struct {
	username     string
	apiKey       string
	inventoryURL string
	ordersURL    string
	httpClient   *http.Client
}

// NewClient construye el cliente. Sin credenciales devuelve error.
func NewClient(cfg config.AbeBooksConfig) (*Client, error) {
	if cfg.Username == "" || cfg.APIKey == "" {
		return nil, errors.New("abebooks: ABEBOOKS_USERNAME y ABEBOOKS_API_KEY son obligatorios")
	}
	return &Client{
		username:     cfg.Username,
		apiKey:       cfg.APIKey,
		inventoryURL: cfg.Endpoint,
		ordersURL:    cfg.OrdersEndpoint,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// UpdateInventory publica o retira los libros y devuelve el resultado por SKU.
func (c *Client) UpdateInventory(ctx context.Context, items []ports.InventoryItem) ([]ports.InventoryResult, error) {
	if len(items) == 0 {
		return nil, nil
	}
	payload, err := BuildInventoryRequest(c.username, c.apiKey, items)
	if err != nil {
		return nil, err
	}
	raw, err := c.post(ctx, c.inventoryURL, payload)
	if err != nil {
		return nil, err
	}
	return ParseInventoryResponse(raw)
}

// FetchNewOrders descarga los pedidos pendientes (getAllNewOrders).
func (c *Client) FetchNewOrders(ctx context.Context) ([]*entity.MarketplaceOrder, error) {
	payload, err := BuildOrdersRequest(c.username, c.apiKey)
	if err != nil {
		return nil, err
	}
	raw, err := c.post(ctx, c.ordersURL, payload)
	if err != nil {
		return nil, err
	}
	return marketplace.ParseAbeBooksOrders(raw)
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("abebooks: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("abebooks: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("abebooks: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("abebooks: leer respuesta: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("abebooks: HTTP %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return raw, nil
}

func newRequestDoc(root, action, username, apiKey string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	r := doc.CreateElement(root)
	r.CreateAttr("version", "1.0")
	a := r.CreateElement("action")
	a.CreateAttr("name", action)
	a.CreateElement("username").SetText(username)
	a.CreateElement("password").SetText(apiKey)
	return doc, r
}

// BuildInventoryRequest genera el inventoryUpdateRequest con una entrada por libro.
func BuildInventoryRequest(username, apiKey string, items []ports.InventoryItem) ([]byte, error) {
	doc, root := newRequestDoc("inventoryUpdateRequest", "bookupdate", username, apiKey)
	list := root.CreateElement("AbebookList")
	for _, it := range items {
		if it.Book == nil {
			continue
		}
		b := it.Book
		e := list.CreateElement("Abebook")
		e.CreateElement("transactionType").SetText(string(it.Action))
		e.CreateElement("vendorBookID").SetText(b.SKU())
		if it.Action == ports.InventoryDelete {
			continue
		}
		title := b.Title
		if title == "" {
			title = entity.DefaultBookTitle
		}
		author := b.Author
		if author == "" {
			author = entity.DefaultBookAuthor
		}
		e.CreateElement("title").SetText(title)
		e.CreateElement("author").SetText(author)
		if b.Publisher != "" {
			e.CreateElement("publisher").SetText(b.Publisher)
		}
		if b.Year > 0 {
			e.CreateElement("publishYear").SetText(strconv.Itoa(b.Year))
		}
		if b.ISBN != "" {
			e.CreateElement("isbn").SetText(b.ISBN)
		}
		price := e.CreateElement("price")
		price.CreateAttr("currency", "EUR")
		price.SetText(b.Price.StringFixed(2))
		e.CreateElement("quantity").SetText(strconv.Itoa(b.Stock))
		e.CreateElement("bookCondition").SetText(catalog.MarketplaceCondition(b.Condition))
		if d := strings.Join(strings.Fields(b.Description), " "); d != "" {
			e.CreateElement("description").SetText(d)
		}
		if b.CoverURL != "" {
			e.CreateElement("picURL").SetText(b.CoverURL)
		}
	}
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("abebooks: serializar inventario: %w", err)
	}
	return out, nil
}

// BuildOrdersRequest genera el orderUpdateRequest getAllNewOrders.
func BuildOrdersRequest(username, apiKey string) ([]byte, error) {
	doc, _ := newRequestDoc("orderUpdateRequest", "getAllNewOrders", username, apiKey)
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("abebooks: serializar petición de pedidos: %w", err)
	}
	return out, nil
}

// ParseInventoryResponse resultado por libro del inventoryUpdateResponse.
// Un requestError global (credenciales, formato) se devuelve como error.
func ParseInventoryResponse(raw []byte) ([]ports.InventoryResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("abebooks: respuesta xml inválida: %w", err)
	}
	if e := doc.FindElement("//requestError"); e != nil {
		return nil, fmt.Errorf("abebooks: %s (código %s)", text(e, "message"), text(e, "code"))
	}
	var out []ports.InventoryResult
	for _, e := range doc.FindElements("//AbebookList/Abebook") {
		r := ports.InventoryResult{
			SKU:     text(e, "vendorBookID"),
			Code:    text(e, "code"),
			Message: text(e, "message"),
		}
		if errEl := e.FindElement("error"); errEl != nil {
			r.Code = text(errEl, "code")
			r.Message = text(errEl, "message")
		} else {
			r.Success = r.Code == "" || successCodes[r.Code]
		}
		out = append(out, r)
	}
	return out, nil
}

func text(e *etree.Element, path string) string {
	if c := e.FindElement(path); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
