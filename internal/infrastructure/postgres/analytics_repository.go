package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y el informe por canal.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesByChannel agrupa pedidos, unidades e ingresos por tipo de pedido.
// Los ingresos son la suma de totales (IVA y envío incluidos). Cancelados y devoluciones no cuentan.
func (r *AnalyticsRepo) GetSalesByChannel(ctx context.Context, startDate, endDate time.Time) ([]repository.ChannelSalesResult, error) {
	const query = `
	SELECT
	    p.tipo                                  AS channel,
	    COUNT(*)::int                           AS order_count,
	    COALESCE(SUM(u.unidades), 0)::int       AS units_sold,
	    COALESCE(SUM(p.total), 0)               AS revenue
	FROM pedidos p
	LEFT JOIN (
	    SELECT pedido_id, SUM(cantidad) AS unidades
	    FROM pedido_detalles
	    GROUP BY pedido_id
	) u ON u.pedido_id = p.id
	WHERE p.fecha_pedido BETWEEN $1 AND $2
	  AND NOT (p.estado = ANY($3))
	GROUP BY p.tipo
	ORDER BY revenue DESC, channel`

	rows, err := r.pool.Query(ctx, query, startDate, endDate, notCounted)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetSalesByChannel: %w", err)
	}
	defer rows.Close()

	var results []repository.ChannelSalesResult
	for rows.Next() {
		var row repository.ChannelSalesResult
		if err := rows.Scan(&row.Channel, &row.OrderCount, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetSalesByChannel scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSalesMetrics ingresos y número de pedidos válidos del período.
// COALESCE devuelve cero si el período no tiene ventas.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (revenue decimal.Decimal, orders int, err error) {
	const query = `
	SELECT
	    COALESCE(SUM(p.total), 0) AS revenue,
	    COUNT(*)::int             AS orders
	FROM pedidos p
	WHERE p.fecha_pedido BETWEEN $1 AND $2
	  AND NOT (p.estado = ANY($3))`

	err = r.pool.QueryRow(ctx, query, startDate, endDate, notCounted).Scan(&revenue, &orders)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return revenue, orders, nil
}

// CountLowStock libros activos con pocas unidades (entre 1 y threshold).
func (r *AnalyticsRepo) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM libros WHERE activo AND stock BETWEEN 1 AND $1`, threshold,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountLowStock: %w", err)
	}
	return n, nil
}
