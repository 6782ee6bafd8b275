package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// Orders repositorio de pedidos en memoria.
type Orders struct {
	mu         sync.Mutex
	nextID     int64
	nextLineID int64
	Items      map[int64]*entity.Order
	// Books opcional: rellena BookTitle/BookCode al leer, como el join real.
	Books *Books
	// OnCreate opcional: si devuelve error, Create falla sin insertar.
	OnCreate func(o *entity.Order) error
}

func NewOrders(books *Books) *Orders {
	return &Orders{Items: map[int64]*entity.Order{}, Books: books}
}

func cloneOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Lines = make([]*entity.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lc := *l
		cp.Lines = append(cp.Lines, &lc)
	}
	return &cp
}

func (r *Orders) enrich(o *entity.Order) *entity.Order {
	if r.Books == nil {
		return o
	}
	for _, l := range o.Lines {
		if l.BookID == nil {
			continue
		}
		if b, _ := r.Books.GetByID(context.Background(), *l.BookID); b != nil {
			l.BookTitle, l.BookCode = b.Title, b.Code
		}
	}
	return o
}

func (r *Orders) Create(_ context.Context, o *entity.Order) error {
	if r.OnCreate != nil {
		if err := r.OnCreate(o); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	for _, l := range o.Lines {
		r.nextLineID++
		l.ID = r.nextLineID
		l.OrderID = o.ID
	}
	r.Items[o.ID] = cloneOrder(o)
	return nil
}

func (r *Orders) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	r.mu.Lock()
	o, ok := r.Items[id]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	cp := cloneOrder(o)
	r.mu.Unlock()
	return r.enrich(cp), nil
}

func (r *Orders) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *Orders) GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Order, error) {
	r.mu.Lock()
	var id int64
	for _, o := range r.Items {
		if o.StripePaymentID == intentID {
			id = o.ID
		}
	}
	r.mu.Unlock()
	if id == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *Orders) all() []*entity.Order {
	out := make([]*entity.Order, 0, len(r.Items))
	for _, o := range r.Items {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *Orders) List(_ context.Context, f entity.OrderFilter) ([]*entity.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match []*entity.Order
	for _, o := range r.all() {
		switch {
		case f.Status != "" && o.Status != f.Status,
			f.Type != "" && o.Type != f.Type,
			f.ClientID != "" && o.ClientID != f.ClientID,
			f.UserID != "" && o.UserID != f.UserID,
			f.From != nil && o.OrderDate.Before(*f.From),
			f.To != nil && o.OrderDate.After(*f.To),
			f.Query != "" && !strings.Contains(strings.ToLower(strings.Join([]string{o.ClientName, o.ClientEmail, o.UserName, o.UserEmail, o.ExternalRef}, " ")), strings.ToLower(f.Query)):
			continue
		}
		match = append(match, o)
	}
	return page(match, f.Limit, f.Offset), len(match), nil
}

func (r *Orders) ListAll(_ context.Context) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(), nil
}

func (r *Orders) UpdateStatus(_ context.Context, id int64, status, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.Items[id]; ok {
		o.Status, o.Notes = status, notes
	}
	return nil
}

func (r *Orders) UpdateTotals(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Items[o.ID]; ok {
		cur.Subtotal, cur.Tax, cur.Total = o.Subtotal, o.Tax, o.Total
	}
	return nil
}

func (r *Orders) UpdateShipping(_ context.Context, id int64, carrier, tracking string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.Items[id]; ok {
		o.Carrier, o.TrackingNumber = carrier, tracking
	}
	return nil
}

func (r *Orders) SetPaymentIntent(_ context.Context, id int64, intentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.Items[id]; ok {
		o.StripePaymentID = intentID
	}
	return nil
}

func (r *Orders) ExistsExternalRef(_ context.Context, orderType, ref string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref == "" {
		return false, nil
	}
	for _, o := range r.Items {
		if o.Type == orderType && o.ExternalRef == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *Orders) AddLine(_ context.Context, l *entity.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.Items[l.OrderID]
	if !ok {
		return nil
	}
	r.nextLineID++
	l.ID = r.nextLineID
	lc := *l
	o.Lines = append(o.Lines, &lc)
	return nil
}

func (r *Orders) DeleteLine(_ context.Context, orderID, lineID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.Items[orderID]
	if !ok {
		return nil
	}
	for i, l := range o.Lines {
		if l.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Orders) Stats(_ context.Context) (*entity.OrderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &entity.OrderStats{ByStatus: map[string]int{}, TotalSales: decimal.Zero}
	for _, o := range r.Items {
		s.Total++
		s.ByStatus[o.Status]++
		if o.Status != entity.OrderStatusCancelled && o.Status != entity.OrderStatusReturned {
			s.TotalSales = s.TotalSales.Add(o.Total)
		}
	}
	return s, nil
}

func (r *Orders) TopSelling(ctx context.Context, limit int) ([]entity.TopSellingItem, error) {
	all, _ := r.ListAll(ctx)
	qty := map[string]int{}
	for _, o := range all {
		r.enrich(o)
		for _, l := range o.Lines {
			qty[l.DisplayName()] += l.Quantity
		}
	}
	out := make([]entity.TopSellingItem, 0, len(qty))
	for name, q := range qty {
		out = append(out, entity.TopSellingItem{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return page(out, limit, 0), nil
}

func (r *Orders) CountByStatus(_ context.Context, statuses ...string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.Items {
		for _, s := range statuses {
			if o.Status == s {
				n++
			}
		}
	}
	return n, nil
}

// Audit registro de auditoría en memoria.
type Audit struct {
	mu      sync.Mutex
	Entries []*entity.AuditEntry
}

func (a *Audit) Insert(_ context.Context, e *entity.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, e)
	return nil
}

// Last última entrada registrada.
func (a *Audit) Last() *entity.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.Entries) == 0 {
		return nil
	}
	return a.Entries[len(a.Entries)-1]
}
