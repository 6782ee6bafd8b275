package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.MarketplaceOrderRepository = (*MarketplaceOrderRepo)(nil)

// MarketplaceOrderRepo caché local de pedidos descargados de AbeBooks.
// Cliente e ítems se guardan como JSONB tal como llegan del marketplace.
type MarketplaceOrderRepo struct {
	q Querier
}

func NewMarketplaceOrderRepository(q Querier) *MarketplaceOrderRepo {
	return &MarketplaceOrderRepo{q: q}
}

const marketplaceOrderSelect = `
	SELECT abebooks_order_id, fecha_pedido, estado, cliente, items, subtotal, coste_envio, total,
	       numero_seguimiento, synced_at
	FROM abebooks_orders_cache`

func scanMarketplaceOrder(row pgx.Row) (*entity.MarketplaceOrder, error) {
	var o entity.MarketplaceOrder
	err := row.Scan(&o.ExternalID, &o.OrderDate, &o.Status, &o.Customer, &o.Items, &o.Subtotal, &o.ShippingCost,
		&o.Total, &o.TrackingNumber, &o.SyncedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Upsert inserta o refresca el pedido por su ID de AbeBooks.
func (r *MarketplaceOrderRepo) Upsert(ctx context.Context, o *entity.MarketplaceOrder) error {
	items := o.Items
	if items == nil {
		items = []entity.MarketplaceItem{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO abebooks_orders_cache (abebooks_order_id, fecha_pedido, estado, cliente, items, subtotal, coste_envio,
		                                   total, numero_seguimiento, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (abebooks_order_id) DO UPDATE SET
		    fecha_pedido = EXCLUDED.fecha_pedido, estado = EXCLUDED.estado, cliente = EXCLUDED.cliente,
		    items = EXCLUDED.items, subtotal = EXCLUDED.subtotal, coste_envio = EXCLUDED.coste_envio,
		    total = EXCLUDED.total, numero_seguimiento = EXCLUDED.numero_seguimiento, synced_at = EXCLUDED.synced_at`,
		o.ExternalID, o.OrderDate, o.Status, o.Customer, items, o.Subtotal, o.ShippingCost, o.Total,
		o.TrackingNumber, o.SyncedAt)
	if err != nil {
		return fmt.Errorf("upsert marketplace order: %w", err)
	}
	return nil
}

// List pedidos en caché, más recientes primero; limit 0 = sin límite.
func (r *MarketplaceOrderRepo) List(ctx context.Context, f entity.MarketplaceOrderFilter, limit int) ([]*entity.MarketplaceOrder, error) {
	var fl filters
	if f.Status != "" {
		fl.add("estado = $%d", f.Status)
	}
	if f.From != nil {
		fl.add("fecha_pedido >= $%d", *f.From)
	}
	if f.To != nil {
		fl.add("fecha_pedido <= $%d", *f.To)
	}
	clause, args := fl.page(limit, 0)
	rows, err := r.q.Query(ctx, marketplaceOrderSelect+fl.where()+` ORDER BY fecha_pedido DESC`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list marketplace orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.MarketplaceOrder
	for rows.Next() {
		o, err := scanMarketplaceOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marketplace order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *MarketplaceOrderRepo) GetByExternalID(ctx context.Context, id string) (*entity.MarketplaceOrder, error) {
	o, err := scanMarketplaceOrder(r.q.QueryRow(ctx, marketplaceOrderSelect+` WHERE abebooks_order_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marketplace order: %w", err)
	}
	return o, nil
}
