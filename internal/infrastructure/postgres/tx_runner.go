package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/libreria-api/internal/application/checkout"
	"github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ order.TxRunner = (*TxRunner)(nil)
var _ checkout.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrder ejecuta fn con pedidos, stock y auditoría atados a la misma tx.
// Si fn devuelve error se hace Rollback y no queda ningún cambio de stock.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	stock repository.StockRepository,
	audit repository.AuditRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewBookRepository(tx), NewAuditRepository(tx))
	})
}

// RunCheckout ejecuta fn con pedidos, stock, carrito y auditoría en la misma tx (creación del pedido web).
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	orders repository.OrderRepository,
	stock repository.StockRepository,
	cart repository.CartRepository,
	audit repository.AuditRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewBookRepository(tx), NewCartRepository(tx), NewAuditRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
