package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ChannelSalesResult ventas agregadas por canal (tipo de pedido).
type ChannelSalesResult struct {
	Channel    string // interno, tienda, iberlibro, uniliber, abebooks...
	OrderCount int
	UnitsSold  int
	Revenue    decimal.Decimal // suma de totales (IVA incluido)
}

// AnalyticsRepository consultas de lectura para el dashboard de ventas.
// Excluyen pedidos cancelados y devueltos.
type AnalyticsRepository interface {
	// GetSalesMetrics ingresos y número de pedidos en el rango [start, end].
	GetSalesMetrics(ctx context.Context, start, end time.Time) (revenue decimal.Decimal, orders int, err error)

	// GetSalesByChannel ventas del período agrupadas por tipo de pedido, de mayor a menor ingreso.
	GetSalesByChannel(ctx context.Context, start, end time.Time) ([]ChannelSalesResult, error)

	// CountLowStock libros activos con stock entre 1 y threshold.
	CountLowStock(ctx context.Context, threshold int) (int, error)
}
