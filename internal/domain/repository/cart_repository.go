package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// CartRepository carrito persistido por usuario.
type CartRepository interface {
	// List líneas del carrito con el libro cargado.
	List(ctx context.Context, userID string) ([]*entity.CartItem, error)
	// Upsert inserta o actualiza la cantidad por (user, book).
	Upsert(ctx context.Context, userID string, bookID int64, qty int) error
	// DeleteExcept borra las líneas cuyo libro no está en keep (keep vacío = vaciar).
	DeleteExcept(ctx context.Context, userID string, keep []int64) error
	Clear(ctx context.Context, userID string) error
}
