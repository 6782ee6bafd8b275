package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

type stubOrders struct {
	top     []dto.TopSellingDTO
	pending int
}

func (s stubOrders) TopSelling(context.Context) ([]dto.TopSellingDTO, error) { return s.top, nil }
func (s stubOrders) PendingCount(context.Context) (int, error)               { return s.pending, nil }

func TestGetSummary(t *testing.T) {
	repo := &fakes.Analytics{
		Revenue: decimal.RequireFromString("300"),
		Orders:  4,
		Channels: []repository.ChannelSalesResult{
			{Channel: "interno", OrderCount: 3, UnitsSold: 5, Revenue: decimal.NewFromInt(225)},
			{Channel: "tienda", OrderCount: 1, UnitsSold: 1, Revenue: decimal.NewFromInt(75)},
		},
		LowStock: 6,
	}
	uc := NewDashboardUseCase(repo, stubOrders{top: []dto.TopSellingDTO{{Name: "La Regenta", Quantity: 9}}, pending: 2})
	uc.now = func() time.Time { return time.Date(2026, 2, 14, 17, 30, 0, 0, time.UTC) }

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Febrero 2026", got.DateLabel)
	assert.Equal(t, "300", got.MonthlySales.String())
	assert.Equal(t, 4, got.MonthlyOrders)
	assert.Equal(t, "75", got.AverageTicket.String())
	require.Len(t, got.SalesByChannel, 2)
	assert.Equal(t, "75", got.SalesByChannel[0].Share.String())
	assert.Equal(t, "25", got.SalesByChannel[1].Share.String())
	assert.Equal(t, 2, got.PendingOrders)
	assert.Equal(t, 6, got.LowStockBooks)
	assert.Equal(t, "La Regenta", got.TopSelling[0].Name)

	require.Len(t, repo.Ranges, 2)
	for _, r := range repo.Ranges {
		assert.Equal(t, 14, r[1].Day())
		assert.Equal(t, 23, r[1].Hour())
	}
}

func TestGetSummary_SinPedidos(t *testing.T) {
	uc := NewDashboardUseCase(&fakes.Analytics{}, stubOrders{})
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.AverageTicket.IsZero())
	assert.Empty(t, got.SalesByChannel)
}

func TestGetSummary_ErrorRepositorio(t *testing.T) {
	uc := NewDashboardUseCase(&fakes.Analytics{Err: errors.New("db caída")}, stubOrders{})
	_, err := uc.GetSummary(context.Background())
	assert.Error(t, err)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}
