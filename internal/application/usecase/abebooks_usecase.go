package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Límite del listado en caché cuando no hay filtro de fechas.
const abeBooksDefaultListLimit = 50

// AbeBooksUseCase sincronización de inventario y pedidos con AbeBooks.
type AbeBooksUseCase struct {
	client   ports.MarketplaceClient
	books    repository.BookRepository
	cache    repository.MarketplaceOrderRepository
	settings ports.SettingsProvider
	modules  *ModuleService
	now      func() time.Time
	fallback float64
}

// NewAbeBooksUseCase construye el caso de uso.
func NewAbeBooksUseCase(client ports.MarketplaceClient, books repository.BookRepository, cache repository.MarketplaceOrderRepository, settings ports.SettingsProvider) *AbeBooksUseCase {
	return &AbeBooksUseCase{
		client:   client,
		books:    books,
		cache:    cache,
		settings: settings,
		modules:  NewModuleService(settings),
		now:      time.Now,
	}
}

// WithMinPrice fija el precio mínimo de configuración (ABEBOOKS_MIN_PRICE) usado
// cuando los ajustes no guardan uno.
func (uc *AbeBooksUseCase) WithMinPrice(p float64) *AbeBooksUseCase {
	uc.fallback = p
	return uc
}

func (uc *AbeBooksUseCase) ensureEnabled(ctx context.Context) error {
	ok, err := uc.modules.HasActiveModule(ctx, IntegrationAbeBooks)
	if err != nil {
		return err
	}
	if !ok || uc.client == nil {
		return domain.ErrIntegrationDisabled
	}
	return nil
}

func (uc *AbeBooksUseCase) minPrice(ctx context.Context) decimal.Decimal {
	var feed entity.AbeBooksFeedSettings
	if cfg, err := uc.settings.Integrations(ctx); err == nil {
		feed = cfg.AbeBooks.FTPS
	}
	return decimal.NewFromFloat(feed.EffectiveMinPrice(uc.fallback))
}

// ActionFor decide si un libro se publica o se retira: con stock y precio
// mínimo se publica, en cualquier otro caso se retira.
func ActionFor(b *entity.Book, minPrice decimal.Decimal) ports.InventoryAction {
	if b.Active && b.Stock > 0 && b.Price.GreaterThanOrEqual(minPrice) {
		return ports.InventoryAdd
	}
	return ports.InventoryDelete
}

// PushInventory publica o retira los libros indicados.
func (uc *AbeBooksUseCase) PushInventory(ctx context.Context, books []*entity.Book) (*dto.SyncResultResponse, error) {
	if err := uc.ensureEnabled(ctx); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &dto.SyncResultResponse{Message: "No hay libros para sincronizar"}, nil
	}
	minPrice := uc.minPrice(ctx)
	items := make([]ports.InventoryItem, 0, len(books))
	res := &dto.SyncResultResponse{}
	for _, b := range books {
		a := ActionFor(b, minPrice)
		if a == ports.InventoryAdd {
			res.Added++
		} else {
			res.Deleted++
		}
		items = append(items, ports.InventoryItem{Action: a, Book: b})
	}
	results, err := uc.client.UpdateInventory(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("abebooks: actualizar inventario: %w", err)
	}
	for _, r := range results {
		if r.Success {
			res.Synced++
		} else {
			res.Failed++
		}
	}
	res.Message = fmt.Sprintf("%d libros sincronizados, %d con error", res.Synced, res.Failed)
	return res, nil
}

// PushAll envía el catálogo completo.
func (uc *AbeBooksUseCase) PushAll(ctx context.Context) (*dto.SyncResultResponse, error) {
	if err := uc.ensureEnabled(ctx); err != nil {
		return nil, err
	}
	books, err := uc.books.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.PushInventory(ctx, books)
}

// SyncBook sincroniza un único libro según su estado actual.
func (uc *AbeBooksUseCase) SyncBook(ctx context.Context, id int64) (*dto.SyncResultResponse, error) {
	b, err := uc.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return uc.PushInventory(ctx, []*entity.Book{b})
}

// SyncStock sincroniza un libro con un stock concreto (stock <= 0 lo retira).
func (uc *AbeBooksUseCase) SyncStock(ctx context.Context, id int64, stock int) (*dto.SyncResultResponse, error) {
	b, err := uc.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	cp := *b
	cp.Stock = stock
	return uc.PushInventory(ctx, []*entity.Book{&cp})
}

// SyncOrders descarga los pedidos nuevos y actualiza la caché local.
func (uc *AbeBooksUseCase) SyncOrders(ctx context.Context) (*dto.SyncResultResponse, error) {
	if err := uc.ensureEnabled(ctx); err != nil {
		return nil, err
	}
	orders, err := uc.client.FetchNewOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("abebooks: descargar pedidos: %w", err)
	}
	res := &dto.SyncResultResponse{}
	now := uc.now()
	for _, o := range orders {
		o.SyncedAt = now
		if err := uc.cache.Upsert(ctx, o); err != nil {
			res.Failed++
			continue
		}
		res.Synced++
	}
	res.Message = fmt.Sprintf("%d pedidos sincronizados", res.Synced)
	return res, nil
}

// ListCachedOrders pedidos en caché por fecha descendente.
func (uc *AbeBooksUseCase) ListCachedOrders(ctx context.Context, f entity.MarketplaceOrderFilter) ([]dto.MarketplaceOrderResponse, error) {
	if err := uc.ensureEnabled(ctx); err != nil {
		return nil, err
	}
	limit := 0
	if f.From == nil && f.To == nil {
		limit = abeBooksDefaultListLimit
	}
	list, err := uc.cache.List(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MarketplaceOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToMarketplaceOrderResponse(o))
	}
	return out, nil
}

// GetCachedOrder pedido en caché por su ID externo.
func (uc *AbeBooksUseCase) GetCachedOrder(ctx context.Context, externalID string) (*entity.MarketplaceOrder, error) {
	if err := uc.ensureEnabled(ctx); err != nil {
		return nil, err
	}
	return uc.cache.GetByExternalID(ctx, externalID)
}

// ToMarketplaceOrderResponse resumen del pedido en caché.
func ToMarketplaceOrderResponse(o *entity.MarketplaceOrder) dto.MarketplaceOrderResponse {
	items := 0
	for _, it := range o.Items {
		items += it.Quantity
	}
	label := entity.AbeBooksStatusLabels[o.Status]
	if label == "" {
		label = o.Status
	}
	return dto.MarketplaceOrderResponse{
		ExternalID:   o.ExternalID,
		OrderDate:    o.OrderDate,
		Status:       o.Status,
		StatusLabel:  label,
		CustomerName: o.Customer.Name,
		Country:      o.Customer.Country,
		Items:        items,
		Subtotal:     o.Subtotal,
		ShippingCost: o.ShippingCost,
		Total:        o.Total,
		Tracking:     o.TrackingNumber,
	}
}
