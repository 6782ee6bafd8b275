// Package analytics contiene el resumen del dashboard de ventas de la librería.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// Umbral de stock bajo para la alerta del dashboard.
const LowStockThreshold = 2

// OrderStats consultas de pedidos que alimentan el dashboard.
type OrderStats interface {
	TopSelling(ctx context.Context) ([]dto.TopSellingDTO, error)
	PendingCount(ctx context.Context) (int, error)
}

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el caso de uso de pedidos.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	orders        OrderStats
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, orders OrderStats) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, orders: orders, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Las consultas se lanzan en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetSalesByChannel(mes)
//  4. TopSelling, PendingCount y CountLowStock
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type metricsResult struct {
		revenue decimal.Decimal
		orders  int
		err     error
	}
	type channelsResult struct {
		rows []repository.ChannelSalesResult
		err  error
	}
	type countersResult struct {
		top      []dto.TopSellingDTO
		pending  int
		lowStock int
		err      error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	channelsCh := make(chan channelsResult, 1)
	countersCh := make(chan countersResult, 1)

	go func() {
		rev, n, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{rev, n, err}
	}()
	go func() {
		rev, n, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, monthEnd)
		monthCh <- metricsResult{rev, n, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetSalesByChannel(ctx, monthStart, monthEnd)
		channelsCh <- channelsResult{rows, err}
	}()
	go func() {
		var r countersResult
		if r.top, r.err = uc.orders.TopSelling(ctx); r.err == nil {
			if r.pending, r.err = uc.orders.PendingCount(ctx); r.err == nil {
				r.lowStock, r.err = uc.analyticsRepo.CountLowStock(ctx, LowStockThreshold)
			}
		}
		countersCh <- r
	}()

	today := <-todayCh
	month := <-monthCh
	channels := <-channelsCh
	counters := <-countersCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if channels.err != nil {
		return nil, fmt.Errorf("dashboard: ventas por canal: %w", channels.err)
	}
	if counters.err != nil {
		return nil, fmt.Errorf("dashboard: contadores: %w", counters.err)
	}

	avg := decimal.Zero
	if month.orders > 0 {
		avg = month.revenue.Div(decimal.NewFromInt(int64(month.orders))).Round(2)
	}
	return &dto.DashboardSummaryDTO{
		TodaySales:     today.revenue.Round(2),
		TodayOrders:    today.orders,
		MonthlySales:   month.revenue.Round(2),
		MonthlyOrders:  month.orders,
		AverageTicket:  avg,
		SalesByChannel: usecase.BuildChannelSales(channels.rows),
		TopSelling:     counters.top,
		PendingOrders:  counters.pending,
		LowStockBooks:  counters.lowStock,
		DateLabel:      monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
