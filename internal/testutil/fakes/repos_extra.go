package fakes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// Banners repositorio de banners en memoria.
type Banners struct {
	mu    sync.Mutex
	Items map[string]*entity.Banner
}

func NewBanners() *Banners { return &Banners{Items: map[string]*entity.Banner{}} }

func (r *Banners) Create(_ context.Context, b *entity.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.Items[b.ID] = &cp
	return nil
}

func (r *Banners) GetByID(_ context.Context, id string) (*entity.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *Banners) Update(ctx context.Context, b *entity.Banner) error { return r.Create(ctx, b) }

func (r *Banners) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Items, id)
	return nil
}

func (r *Banners) List(_ context.Context, onlyActive bool) ([]*entity.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Banner
	for _, b := range r.Items {
		if onlyActive && !b.Active {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Invoices repositorio de facturas en memoria.
type Invoices struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.Invoice
	seq    map[string]int
}

func NewInvoices() *Invoices {
	return &Invoices{Items: map[int64]*entity.Invoice{}, seq: map[string]int{}}
}

func (r *Invoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.Items {
		if ex.OrderID == inv.OrderID || ex.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	inv.ID = r.nextID
	for _, l := range inv.Lines {
		l.InvoiceID = inv.ID
	}
	cp := *inv
	r.Items[inv.ID] = &cp
	return nil
}

func (r *Invoices) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.Items[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *Invoices) GetByOrderID(_ context.Context, orderID int64) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.Items {
		if inv.OrderID == orderID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Invoices) sorted() []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(r.Items))
	for _, inv := range r.Items {
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *Invoices) List(_ context.Context, status string, limit, offset int) ([]*entity.Invoice, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.sorted() {
		if status == "" || inv.Status == status {
			out = append(out, inv)
		}
	}
	return page(out, limit, offset), len(out), nil
}

func (r *Invoices) ListAll(_ context.Context) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *Invoices) UpdateStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.Items[id]; ok {
		inv.Status = status
	}
	return nil
}

func (r *Invoices) NextSequence(_ context.Context, prefix string, year int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s%d", prefix, year)
	r.seq[key]++
	return r.seq[key], nil
}

// MarketplaceOrders caché de pedidos AbeBooks en memoria.
type MarketplaceOrders struct {
	mu        sync.Mutex
	Items     map[string]*entity.MarketplaceOrder
	LastLimit int
}

func NewMarketplaceOrders() *MarketplaceOrders {
	return &MarketplaceOrders{Items: map[string]*entity.MarketplaceOrder{}}
}

func (r *MarketplaceOrders) Upsert(_ context.Context, o *entity.MarketplaceOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.Items[o.ExternalID] = &cp
	return nil
}

func (r *MarketplaceOrders) List(_ context.Context, f entity.MarketplaceOrderFilter, limit int) ([]*entity.MarketplaceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastLimit = limit
	var out []*entity.MarketplaceOrder
	for _, o := range r.Items {
		switch {
		case f.Status != "" && o.Status != f.Status,
			f.From != nil && o.OrderDate.Before(*f.From),
			f.To != nil && o.OrderDate.After(*f.To):
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return page(out, limit, 0), nil
}

func (r *MarketplaceOrders) GetByExternalID(_ context.Context, id string) (*entity.MarketplaceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.Items[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

// SettingsRepo blobs de configuración en memoria.
type SettingsRepo struct {
	mu    sync.Mutex
	Items map[string]*entity.Setting
}

func NewSettingsRepo() *SettingsRepo { return &SettingsRepo{Items: map[string]*entity.Setting{}} }

func (r *SettingsRepo) Get(_ context.Context, category string) (*entity.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.Items[category]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SettingsRepo) List(_ context.Context) ([]*entity.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Setting
	for _, s := range r.Items {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SettingsRepo) Upsert(_ context.Context, s *entity.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.Items[s.Category] = &cp
	return nil
}

func (r *SettingsRepo) Delete(_ context.Context, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Items, category)
	return nil
}

// Analytics repositorio de analítica con resultados fijos.
type Analytics struct {
	Revenue  decimal.Decimal
	Orders   int
	Channels []repository.ChannelSalesResult
	LowStock int
	Err      error
	// Ranges rangos consultados en GetSalesMetrics.
	mu     sync.Mutex
	Ranges [][2]time.Time
}

func (a *Analytics) GetSalesMetrics(_ context.Context, start, end time.Time) (decimal.Decimal, int, error) {
	a.mu.Lock()
	a.Ranges = append(a.Ranges, [2]time.Time{start, end})
	a.mu.Unlock()
	return a.Revenue, a.Orders, a.Err
}

func (a *Analytics) GetSalesByChannel(context.Context, time.Time, time.Time) ([]repository.ChannelSalesResult, error) {
	return a.Channels, a.Err
}

func (a *Analytics) CountLowStock(context.Context, int) (int, error) {
	return a.LowStock, a.Err
}

// Discounts repositorio de descuentos en memoria. List(true) filtra solo por activo;
// la ventana de fechas la resuelve el caso de uso.
type Discounts struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.DiscountRule
}

func NewDiscounts() *Discounts { return &Discounts{Items: map[int64]*entity.DiscountRule{}} }

func (r *Discounts) Create(_ context.Context, d *entity.DiscountRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.Items[d.ID] = &cp
	return nil
}

func (r *Discounts) GetByID(_ context.Context, id int64) (*entity.DiscountRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.Items[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *Discounts) Update(_ context.Context, d *entity.DiscountRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[d.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *d
	r.Items[d.ID] = &cp
	return nil
}

func (r *Discounts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

func (r *Discounts) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.Items[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Active = active
	return nil
}

func (r *Discounts) List(_ context.Context, onlyActive bool) ([]*entity.DiscountRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.DiscountRule
	for _, d := range r.Items {
		if onlyActive && !d.Active {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Percent.Equal(out[j].Percent) {
			return out[i].Percent.GreaterThan(out[j].Percent)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Publishers repositorio de editoriales en memoria; nombre único sin distinguir mayúsculas.
type Publishers struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.Publisher
}

func NewPublishers() *Publishers { return &Publishers{Items: map[int64]*entity.Publisher{}} }

func (r *Publishers) taken(name string, except int64) bool {
	for id, p := range r.Items {
		if id != except && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *Publishers) Create(_ context.Context, p *entity.Publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(p.Name, 0) {
		return domain.ErrDuplicate
	}
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.Items[p.ID] = &cp
	return nil
}

func (r *Publishers) GetByID(_ context.Context, id int64) (*entity.Publisher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Items[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *Publishers) Update(_ context.Context, p *entity.Publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taken(p.Name, p.ID) {
		return domain.ErrDuplicate
	}
	cp := *p
	r.Items[p.ID] = &cp
	return nil
}

func (r *Publishers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

func (r *Publishers) List(ctx context.Context) ([]*entity.Publisher, error) {
	return r.Search(ctx, "", 0)
}

func (r *Publishers) Search(_ context.Context, q string, limit int) ([]*entity.Publisher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	var out []*entity.Publisher
	for _, p := range r.Items {
		if strings.Contains(strings.ToLower(p.Name), q) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
