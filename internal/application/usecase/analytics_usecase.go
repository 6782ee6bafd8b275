package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// AnalyticsUseCase informe de ventas por canal (tipo de pedido) para un período.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo}
}

// GetChannelReport ventas por canal entre startStr y endStr (YYYY-MM-DD, vacíos = mes en curso).
func (uc *AnalyticsUseCase) GetChannelReport(ctx context.Context, startStr, endStr string) (*dto.ChannelReportDTO, error) {
	start, end, err := parsePeriod(startStr, endStr)
	if err != nil {
		return nil, err
	}

	type channelResult struct {
		rows []repository.ChannelSalesResult
		err  error
	}
	type metricsResult struct {
		revenue decimal.Decimal
		orders  int
		err     error
	}
	chChan := make(chan channelResult, 1)
	mChan := make(chan metricsResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.GetSalesByChannel(ctx, start, end)
		chChan <- channelResult{rows, err}
	}()
	go func() {
		rev, n, err := uc.analyticsRepo.GetSalesMetrics(ctx, start, end)
		mChan <- metricsResult{rev, n, err}
	}()

	chRes := <-chChan
	mRes := <-mChan
	if chRes.err != nil {
		return nil, fmt.Errorf("analytics: canales: %w", chRes.err)
	}
	if mRes.err != nil {
		return nil, fmt.Errorf("analytics: métricas: %w", mRes.err)
	}

	avg := decimal.Zero
	if mRes.orders > 0 {
		avg = mRes.revenue.Div(decimal.NewFromInt(int64(mRes.orders))).Round(2)
	}
	return &dto.ChannelReportDTO{
		Period: dto.PeriodDTO{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		TotalRevenue:  mRes.revenue.Round(2),
		TotalOrders:   mRes.orders,
		AverageTicket: avg,
		Channels:      BuildChannelSales(chRes.rows),
	}, nil
}

// BuildChannelSales convierte las filas del repositorio en DTOs con % de participación.
func BuildChannelSales(rows []repository.ChannelSalesResult) []dto.ChannelSalesDTO {
	var total decimal.Decimal
	for _, r := range rows {
		total = total.Add(r.Revenue)
	}
	out := make([]dto.ChannelSalesDTO, 0, len(rows))
	for _, r := range rows {
		share := decimal.Zero
		if total.IsPositive() {
			share = r.Revenue.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, dto.ChannelSalesDTO{
			Channel:    r.Channel,
			OrderCount: r.OrderCount,
			UnitsSold:  r.UnitsSold,
			Revenue:    r.Revenue.Round(2),
			Share:      share,
		})
	}
	return out
}

// parsePeriod convierte los strings de fecha en time.Time; aplica valores por defecto si están vacíos.
func parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido: %v", domain.ErrInvalidInput, err)
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second) // inclusive hasta el final del día
	}

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido: %v", domain.ErrInvalidInput, err)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}
	return start, end, nil
}
