package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

type abeFixture struct {
	uc       *AbeBooksUseCase
	client   *fakes.Marketplace
	cache    *fakes.MarketplaceOrders
	settings *fakes.Settings
}

func newAbeFixture() *abeFixture {
	books := fakes.NewBooks(
		&entity.Book{Code: "000001Ab", Title: "Caro", Price: decimal.NewFromInt(30), Stock: 1, Active: true},
		&entity.Book{Code: "000002Ab", Title: "Barato", Price: decimal.NewFromInt(5), Stock: 4, Active: true},
		&entity.Book{Code: "000003Ab", Title: "Agotado", Price: decimal.NewFromInt(40), Stock: 0, Active: true},
	)
	f := &abeFixture{client: &fakes.Marketplace{}, cache: fakes.NewMarketplaceOrders(), settings: fakes.NewSettings()}
	f.settings.All.Integrations.AbeBooks.Enabled = true
	f.uc = NewAbeBooksUseCase(f.client, books, f.cache, f.settings)
	return f
}

func TestActionFor(t *testing.T) {
	floor := decimal.NewFromInt(12)
	assert.Equal(t, ports.InventoryAdd, ActionFor(&entity.Book{Active: true, Stock: 1, Price: decimal.NewFromInt(12)}, floor))
	assert.Equal(t, ports.InventoryDelete, ActionFor(&entity.Book{Active: true, Stock: 1, Price: decimal.RequireFromString("11.99")}, floor))
	assert.Equal(t, ports.InventoryDelete, ActionFor(&entity.Book{Active: true, Stock: 0, Price: decimal.NewFromInt(50)}, floor))
	assert.Equal(t, ports.InventoryDelete, ActionFor(&entity.Book{Active: false, Stock: 3, Price: decimal.NewFromInt(50)}, floor))
}

func TestAbeBooksDesactivado(t *testing.T) {
	f := newAbeFixture()
	f.settings.All.Integrations.AbeBooks.Enabled = false
	ctx := context.Background()

	_, err := f.uc.PushAll(ctx)
	assert.ErrorIs(t, err, domain.ErrIntegrationDisabled)
	_, err = f.uc.SyncOrders(ctx)
	assert.ErrorIs(t, err, domain.ErrIntegrationDisabled)
	_, err = f.uc.ListCachedOrders(ctx, entity.MarketplaceOrderFilter{})
	assert.ErrorIs(t, err, domain.ErrIntegrationDisabled)
	assert.Empty(t, f.client.Pushed)

	enabled := fakes.NewSettings()
	enabled.All.Integrations.AbeBooks.Enabled = true
	noClient := NewAbeBooksUseCase(nil, fakes.NewBooks(), f.cache, enabled)
	_, err = noClient.PushAll(ctx)
	assert.ErrorIs(t, err, domain.ErrIntegrationDisabled)
}

func TestAbeBooksPushAll(t *testing.T) {
	f := newAbeFixture()
	f.client.FailSKUs = map[string]bool{"000002Ab": true}

	res, err := f.uc.PushAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "2 libros sincronizados, 1 con error", res.Message)

	require.Len(t, f.client.Pushed, 3)
	assert.Equal(t, ports.InventoryAdd, f.client.Pushed[0].Action)
	assert.Equal(t, ports.InventoryDelete, f.client.Pushed[1].Action)
}

func TestAbeBooksMinPriceConfigurable(t *testing.T) {
	f := newAbeFixture()
	f.settings.All.Integrations.AbeBooks.FTPS.MinPrice = 4

	res, err := f.uc.SyncBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	_, err = f.uc.SyncBook(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAbeBooksMinPrice_GuardadoCeroUsaConfiguracion(t *testing.T) {
	f := newAbeFixture()
	f.settings.All.Integrations.AbeBooks.FTPS.MinPrice = 0
	assert.Equal(t, "12", f.uc.minPrice(context.Background()).String())

	f.uc.WithMinPrice(4)
	assert.Equal(t, "4", f.uc.minPrice(context.Background()).String())
	res, err := f.uc.SyncBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added, "el libro de 5 supera el mínimo de configuración")
}

func TestAbeBooksSyncStock(t *testing.T) {
	f := newAbeFixture()

	res, err := f.uc.SyncStock(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, 0, f.client.Pushed[0].Book.Stock)

	res, err = f.uc.SyncStock(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
}

func TestAbeBooksPushInventoryVacio(t *testing.T) {
	res, err := newAbeFixture().uc.PushInventory(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "No hay libros para sincronizar", res.Message)
}

type failingMarketplace struct{ fakes.Marketplace }

func (*failingMarketplace) FetchNewOrders(context.Context) ([]*entity.MarketplaceOrder, error) {
	return nil, errors.New("timeout")
}

func TestAbeBooksSyncOrdersYCache(t *testing.T) {
	f := newAbeFixture()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	f.uc.now = func() time.Time { return now }
	f.client.Orders = []*entity.MarketplaceOrder{
		{ExternalID: "A1", OrderDate: now.Add(-48 * time.Hour), Status: entity.AbeBooksStatusNew,
			Customer: entity.MarketplaceCustomer{Name: "John", Country: "UK"},
			Items:    []entity.MarketplaceItem{{SKU: "000001Ab", Quantity: 2}, {SKU: "000002Ab", Quantity: 1}}},
		{ExternalID: "A2", OrderDate: now.Add(-24 * time.Hour), Status: "Raro"},
	}
	ctx := context.Background()

	res, err := f.uc.SyncOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, now, f.cache.Items["A1"].SyncedAt)

	list, err := f.uc.ListCachedOrders(ctx, entity.MarketplaceOrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, abeBooksDefaultListLimit, f.cache.LastLimit)
	require.Len(t, list, 2)
	assert.Equal(t, "A2", list[0].ExternalID)
	assert.Equal(t, "Raro", list[0].StatusLabel)
	assert.Equal(t, "Nuevo", list[1].StatusLabel)
	assert.Equal(t, 3, list[1].Items)

	from := now.Add(-72 * time.Hour)
	_, err = f.uc.ListCachedOrders(ctx, entity.MarketplaceOrderFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.LastLimit)

	o, err := f.uc.GetCachedOrder(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "John", o.Customer.Name)

	f.uc.client = &failingMarketplace{}
	_, err = f.uc.SyncOrders(ctx)
	assert.Error(t, err)
}

func TestAISuggestCategory(t *testing.T) {
	ctx := context.Background()

	uc := NewAIUseCase(&fakes.LLM{Answer: &dto.CategorySuggestionDTO{Category: "ciencia ficcion"}})
	got, err := uc.SuggestCategory(ctx, dto.SuggestCategoryRequest{Title: "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "Ciencia Ficción", got.Category)

	uc = NewAIUseCase(&fakes.LLM{Answer: &dto.CategorySuggestionDTO{Category: "Astrología"}})
	_, err = uc.SuggestCategory(ctx, dto.SuggestCategoryRequest{Title: "Dune"})
	assert.Error(t, err)

	_, err = uc.SuggestCategory(ctx, dto.SuggestCategoryRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	uc = NewAIUseCase(&fakes.LLM{Err: errors.New("sin cuota")})
	_, err = uc.SuggestCategory(ctx, dto.SuggestCategoryRequest{Title: "Dune"})
	assert.Error(t, err)
}
