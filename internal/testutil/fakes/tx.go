package fakes

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// Tx ejecuta las funciones transaccionales sobre los repositorios en memoria.
// Si fn devuelve error se restaura el estado previo, como un ROLLBACK.
type Tx struct {
	Orders *Orders
	Books  *Books
	Audit  *Audit
	Cart   *Cart
	// Runs número de transacciones ejecutadas.
	Runs int
	// RolledBack número de transacciones deshechas.
	RolledBack int
}

type snapshot struct {
	orders     map[int64]*entity.Order
	nextID     int64
	nextLineID int64
	books      map[int64]*entity.Book
	audit      int
	cart       map[string]map[int64]int
}

func (t *Tx) save() snapshot {
	var s snapshot
	t.Orders.mu.Lock()
	s.orders = make(map[int64]*entity.Order, len(t.Orders.Items))
	for id, o := range t.Orders.Items {
		s.orders[id] = cloneOrder(o)
	}
	s.nextID, s.nextLineID = t.Orders.nextID, t.Orders.nextLineID
	t.Orders.mu.Unlock()

	t.Books.mu.Lock()
	s.books = make(map[int64]*entity.Book, len(t.Books.Items))
	for id, b := range t.Books.Items {
		s.books[id] = cloneBook(b)
	}
	t.Books.mu.Unlock()

	t.Audit.mu.Lock()
	s.audit = len(t.Audit.Entries)
	t.Audit.mu.Unlock()

	t.Cart.mu.Lock()
	s.cart = make(map[string]map[int64]int, len(t.Cart.Rows))
	for u, rows := range t.Cart.Rows {
		cp := make(map[int64]int, len(rows))
		for id, q := range rows {
			cp[id] = q
		}
		s.cart[u] = cp
	}
	t.Cart.mu.Unlock()
	return s
}

func (t *Tx) restore(s snapshot) {
	t.RolledBack++
	t.Orders.mu.Lock()
	t.Orders.Items, t.Orders.nextID, t.Orders.nextLineID = s.orders, s.nextID, s.nextLineID
	t.Orders.mu.Unlock()
	// Se restauran los valores sobre los punteros existentes para no romper referencias de los tests.
	t.Books.mu.Lock()
	for id, b := range s.books {
		if cur, ok := t.Books.Items[id]; ok {
			*cur = *b
		} else {
			t.Books.Items[id] = b
		}
	}
	for id := range t.Books.Items {
		if _, ok := s.books[id]; !ok {
			delete(t.Books.Items, id)
		}
	}
	t.Books.mu.Unlock()
	t.Audit.mu.Lock()
	t.Audit.Entries = t.Audit.Entries[:s.audit]
	t.Audit.mu.Unlock()
	t.Cart.mu.Lock()
	t.Cart.Rows = s.cart
	t.Cart.mu.Unlock()
}

func (t *Tx) run(fn func() error) error {
	t.Runs++
	s := t.save()
	if err := fn(); err != nil {
		t.restore(s)
		return err
	}
	return nil
}

func (t *Tx) RunOrder(ctx context.Context, fn func(repository.OrderRepository, repository.StockRepository, repository.AuditRepository) error) error {
	return t.run(func() error { return fn(t.Orders, t.Books, t.Audit) })
}

func (t *Tx) RunCheckout(ctx context.Context, fn func(repository.OrderRepository, repository.StockRepository, repository.CartRepository, repository.AuditRepository) error) error {
	return t.run(func() error { return fn(t.Orders, t.Books, t.Cart, t.Audit) })
}

// NewStore repositorios de pedidos, libros, auditoría y carrito enlazados en una Tx.
func NewStore(books *Books) *Tx {
	if books == nil {
		books = NewBooks()
	}
	return &Tx{Orders: NewOrders(books), Books: books, Audit: &Audit{}, Cart: NewCart(books)}
}
