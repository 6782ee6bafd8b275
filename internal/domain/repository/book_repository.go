package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// BookRepository define el puerto de persistencia para Book (catálogo).
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id int64) (*entity.Book, error)
	GetByCode(ctx context.Context, code string) (*entity.Book, error)
	// GetByIDs devuelve los libros encontrados indexados por ID.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	// Deactivate baja lógica.
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, f entity.BookFilter) ([]*entity.Book, int, error)
	// Search búsqueda difusa por título, autor o ISBN (texto ya plegado).
	Search(ctx context.Context, folded string, limit int) ([]*entity.Book, error)
	// MaxCodeNumber mayor número base de código para el sufijo dado ("" = almacén).
	MaxCodeNumber(ctx context.Context, suffix string) (int64, error)
	// ListForFeed libros activos con stock > 0 y precio >= minPrice.
	ListForFeed(ctx context.Context, minPrice float64) ([]*entity.Book, error)
	ListAll(ctx context.Context) ([]*entity.Book, error)
	// ListBatch paginación por ID (afterID exclusivo) para procesos masivos.
	ListBatch(ctx context.Context, afterID int64, limit int) ([]*entity.Book, error)
	UpdateText(ctx context.Context, book *entity.Book) error
}

// StockRepository puerto de stock usado dentro de transacciones de pedidos.
type StockRepository interface {
	// GetStockForUpdate bloquea la fila del libro (SELECT FOR UPDATE) y devuelve su stock.
	GetStockForUpdate(ctx context.Context, bookID int64) (int, error)
	// SetStock fija el stock del libro.
	SetStock(ctx context.Context, bookID int64, stock int) error
}
