// Package fakes implementaciones en memoria de repositorios y puertos para los tests
// de los casos de uso. No requieren base de datos ni servicios externos.
package fakes

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// Books repositorio de libros en memoria. Implementa BookRepository y StockRepository.
type Books struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.Book
}

func NewBooks(books ...*entity.Book) *Books {
	r := &Books{Items: map[int64]*entity.Book{}}
	for _, b := range books {
		if b.ID == 0 {
			r.nextID++
			b.ID = r.nextID
		}
		if b.ID > r.nextID {
			r.nextID = b.ID
		}
		r.Items[b.ID] = b
	}
	return r
}

func cloneBook(b *entity.Book) *entity.Book {
	cp := *b
	return &cp
}

func (r *Books) Create(_ context.Context, b *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	r.Items[b.ID] = cloneBook(b)
	return nil
}

func (r *Books) GetByID(_ context.Context, id int64) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[id]; ok {
		return cloneBook(b), nil
	}
	return nil, nil
}

func (r *Books) GetByCode(_ context.Context, code string) (*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Items {
		if strings.EqualFold(b.Code, code) {
			return cloneBook(b), nil
		}
	}
	return nil, nil
}

func (r *Books) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*entity.Book{}
	for _, id := range ids {
		if b, ok := r.Items[id]; ok {
			out[id] = cloneBook(b)
		}
	}
	return out, nil
}

func (r *Books) Update(_ context.Context, b *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items[b.ID] = cloneBook(b)
	return nil
}

func (r *Books) Deactivate(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[id]; ok {
		b.Active = false
	}
	return nil
}

func (r *Books) sorted() []*entity.Book {
	out := make([]*entity.Book, 0, len(r.Items))
	for _, b := range r.Items {
		out = append(out, cloneBook(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Books) List(_ context.Context, f entity.BookFilter) ([]*entity.Book, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := textnorm.Fold(f.Query)
	var match []*entity.Book
	for _, b := range r.sorted() {
		if f.OnlyActive && !b.Active {
			continue
		}
		if q != "" && !strings.Contains(textnorm.Fold(b.Title+" "+b.Author+" "+b.ISBN), q) {
			continue
		}
		if f.CategoryID != 0 && (b.CategoryID == nil || *b.CategoryID != f.CategoryID) {
			continue
		}
		if f.Location != "" && b.Location != f.Location {
			continue
		}
		if f.Featured != nil && b.Featured != *f.Featured {
			continue
		}
		if f.InStock && b.Stock <= 0 {
			continue
		}
		if f.MinPrice.IsPositive() && b.Price.LessThan(f.MinPrice) {
			continue
		}
		match = append(match, b)
	}
	total := len(match)
	return page(match, f.Limit, f.Offset), total, nil
}

func (r *Books) Search(_ context.Context, folded string, limit int) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Book
	for _, b := range r.sorted() {
		if b.Active && strings.Contains(textnorm.Fold(b.Title+" "+b.Author+" "+b.ISBN), folded) {
			out = append(out, b)
		}
	}
	return page(out, limit, 0), nil
}

func (r *Books) MaxCodeNumber(_ context.Context, suffix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best int64
	for _, b := range r.Items {
		if !strings.HasSuffix(b.Code, suffix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSuffix(b.Code, suffix), 10, 64)
		if err == nil && n > best {
			best = n
		}
	}
	return best, nil
}

func (r *Books) ListForFeed(ctx context.Context, minPrice float64) ([]*entity.Book, error) {
	all, _ := r.ListAll(ctx)
	var out []*entity.Book
	for _, b := range all {
		p, _ := b.Price.Float64()
		if b.Active && b.Stock > 0 && p >= minPrice {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Books) ListAll(_ context.Context) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *Books) ListBatch(_ context.Context, afterID int64, limit int) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Book
	for _, b := range r.sorted() {
		if b.ID > afterID {
			out = append(out, b)
		}
	}
	return page(out, limit, 0), nil
}

func (r *Books) UpdateText(_ context.Context, b *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.Items[b.ID]; ok {
		cur.Title, cur.Author, cur.Publisher, cur.Description = b.Title, b.Author, b.Publisher, b.Description
	}
	return nil
}

func (r *Books) GetStockForUpdate(_ context.Context, bookID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[bookID]; ok {
		return b.Stock, nil
	}
	return 0, nil
}

func (r *Books) SetStock(_ context.Context, bookID int64, stock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[bookID]; ok {
		b.Stock = stock
	}
	return nil
}

// Stock stock actual del libro (para aserciones).
func (r *Books) Stock(id int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.Items[id]; ok {
		return b.Stock
	}
	return 0
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
