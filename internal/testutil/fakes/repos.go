package fakes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// Cart carrito en memoria.
type Cart struct {
	mu    sync.Mutex
	Books *Books
	Rows  map[string]map[int64]int
}

func NewCart(books *Books) *Cart {
	return &Cart{Books: books, Rows: map[string]map[int64]int{}}
}

func (c *Cart) List(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	c.mu.Lock()
	rows := c.Rows[userID]
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.CartItem, 0, len(ids))
	for _, id := range ids {
		it := &entity.CartItem{ID: fmt.Sprintf("%s-%d", userID, id), UserID: userID, BookID: id, Quantity: rows[id]}
		if c.Books != nil {
			it.Book, _ = c.Books.GetByID(ctx, id)
		}
		out = append(out, it)
	}
	return out, nil
}

func (c *Cart) Upsert(_ context.Context, userID string, bookID int64, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Rows[userID] == nil {
		c.Rows[userID] = map[int64]int{}
	}
	c.Rows[userID][bookID] = qty
	return nil
}

func (c *Cart) DeleteExcept(_ context.Context, userID string, keep []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := map[int64]bool{}
	for _, id := range keep {
		k[id] = true
	}
	for id := range c.Rows[userID] {
		if !k[id] {
			delete(c.Rows[userID], id)
		}
	}
	return nil
}

func (c *Cart) Clear(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Rows, userID)
	return nil
}

// Clients repositorio de clientes en memoria.
type Clients struct {
	mu    sync.Mutex
	Items map[string]*entity.Client
}

func NewClients(cs ...*entity.Client) *Clients {
	r := &Clients{Items: map[string]*entity.Client{}}
	for _, c := range cs {
		r.Items[c.ID] = c
	}
	return r
}

func (r *Clients) Create(_ context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Items[c.ID] = &cp
	return nil
}

func (r *Clients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *Clients) Update(ctx context.Context, c *entity.Client) error { return r.Create(ctx, c) }

func (r *Clients) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Items, id)
	return nil
}

func (r *Clients) sorted() []*entity.Client {
	out := make([]*entity.Client, 0, len(r.Items))
	for _, c := range r.Items {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Clients) List(_ context.Context, query string, limit, offset int) ([]*entity.Client, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match []*entity.Client
	for _, c := range r.sorted() {
		if query != "" && !strings.Contains(textnorm.Fold(c.FullName()+" "+c.Email+" "+c.Phone+" "+c.Mobile), query) {
			continue
		}
		match = append(match, c)
	}
	return page(match, limit, offset), len(match), nil
}

func (r *Clients) FindCandidates(_ context.Context, name, phone, email string) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.sorted() {
		switch {
		case name != "" && strings.Contains(textnorm.Fold(c.FullName()), name),
			phone != "" && (c.Phone == phone || c.Mobile == phone),
			email != "" && strings.EqualFold(c.Email, email):
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Clients) ListAll(_ context.Context) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

// Users repositorio de usuarios en memoria.
type Users struct {
	mu      sync.Mutex
	Items   map[string]*entity.User
	Touched []string
}

func NewUsers(us ...*entity.User) *Users {
	r := &Users{Items: map[string]*entity.User{}}
	for _, u := range us {
		r.Items[u.ID] = u
	}
	return r
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.Items {
		if ex.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.Items[u.ID] = &cp
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Items[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Users) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.Items[u.ID] = &cp
	return nil
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.Items[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *Users) TouchLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Touched = append(r.Touched, id)
	return nil
}

func (r *Users) List(_ context.Context, role string, limit, offset int) ([]*entity.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.Items {
		if role == "" || u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), len(out), nil
}

// Categories repositorio de categorías en memoria.
type Categories struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.Category
	Books  *Books
}

func NewCategories(books *Books) *Categories {
	return &Categories{Items: map[int64]*entity.Category{}, Books: books}
}

func (r *Categories) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.Items[c.ID] = &cp
	return nil
}

func (r *Categories) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.Items[id]; ok {
		cp := *c
		cp.BookCount = r.countBooks(id)
		return &cp, nil
	}
	return nil, nil
}

func (r *Categories) countBooks(id int64) int {
	if r.Books == nil {
		return 0
	}
	n := 0
	all, _ := r.Books.ListAll(context.Background())
	for _, b := range all {
		if b.CategoryID != nil && *b.CategoryID == id {
			n++
		}
	}
	return n
}

func (r *Categories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Items {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Categories) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Items[c.ID] = &cp
	return nil
}

func (r *Categories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Items, id)
	return nil
}

func (r *Categories) List(_ context.Context, onlyActive bool) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.Items {
		if onlyActive && !c.Active {
			continue
		}
		cp := *c
		cp.BookCount = r.countBooks(c.ID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Categories) MoveBooks(ctx context.Context, from, into int64) (int64, error) {
	if r.Books == nil {
		return 0, nil
	}
	all, _ := r.Books.ListAll(ctx)
	var n int64
	for _, b := range all {
		if b.CategoryID != nil && *b.CategoryID == from {
			id := into
			b.CategoryID = &id
			_ = r.Books.Update(ctx, b)
			n++
		}
	}
	return n, nil
}

// Locations repositorio de ubicaciones en memoria.
type Locations struct {
	mu     sync.Mutex
	nextID int64
	Items  map[int64]*entity.Location
}

func NewLocations() *Locations { return &Locations{Items: map[int64]*entity.Location{}} }

func (r *Locations) Create(_ context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	cp := *l
	r.Items[l.ID] = &cp
	return nil
}

func (r *Locations) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.Items[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *Locations) Update(_ context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.Items[l.ID] = &cp
	return nil
}

func (r *Locations) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Items, id)
	return nil
}

func (r *Locations) List(_ context.Context, onlyActive bool) ([]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.Items {
		if onlyActive && !l.Active {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
