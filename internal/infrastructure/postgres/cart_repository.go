package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito persistido de la tienda web.
type CartRepo struct {
	q Querier
}

func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// List líneas del carrito con el libro cargado, en orden de alta.
func (r *CartRepo) List(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	query := `
		SELECT ci.id::text, ci.usuario_id::text, ci.libro_id, ci.cantidad, ci.created_at, ci.updated_at,
		       l.id, COALESCE(l.legacy_id, ''), l.titulo, l.autor, l.precio, l.stock, l.imagen_portada, l.activo
		FROM carritos ci
		JOIN libros l ON l.id = ci.libro_id
		WHERE ci.usuario_id::text = $1
		ORDER BY ci.created_at, ci.id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		var b entity.Book
		if err := rows.Scan(&it.ID, &it.UserID, &it.BookID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt,
			&b.ID, &b.Code, &b.Title, &b.Author, &b.Price, &b.Stock, &b.CoverURL, &b.Active); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.Book = &b
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Upsert fija la cantidad de un libro en el carrito (inserta si no estaba).
func (r *CartRepo) Upsert(ctx context.Context, userID string, bookID int64, qty int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO carritos (usuario_id, libro_id, cantidad) VALUES ($1::uuid, $2, $3)
		ON CONFLICT (usuario_id, libro_id) DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()`,
		userID, bookID, qty)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// DeleteExcept borra las líneas cuyo libro no está en keep; keep vacío vacía el carrito.
func (r *CartRepo) DeleteExcept(ctx context.Context, userID string, keep []int64) error {
	if len(keep) == 0 {
		return r.Clear(ctx, userID)
	}
	_, err := r.q.Exec(ctx, `DELETE FROM carritos WHERE usuario_id::text = $1 AND NOT (libro_id = ANY($2))`, userID, keep)
	if err != nil {
		return fmt.Errorf("prune cart: %w", err)
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM carritos WHERE usuario_id::text = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
