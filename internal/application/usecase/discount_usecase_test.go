package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

func ptrInt64(v int64) *int64 { return &v }

func newDiscountUC(t *testing.T) (*DiscountUseCase, *fakes.Categories) {
	t.Helper()
	cats := fakes.NewCategories(fakes.NewBooks())
	require.NoError(t, cats.Create(context.Background(), &entity.Category{Name: "Poesía", Active: true}))
	return NewDiscountUseCase(fakes.NewDiscounts(), cats), cats
}

func TestDiscountCreateValida(t *testing.T) {
	uc, _ := newDiscountUC(t)
	ctx := context.Background()

	d, err := uc.Create(ctx, dto.DiscountRequest{Name: " Rebajas ", Percent: decimal.RequireFromString("10.555")})
	require.NoError(t, err)
	assert.Equal(t, "Rebajas", d.Name)
	assert.Equal(t, entity.DiscountScopeGlobal, d.Scope)
	assert.Equal(t, "10.56", d.Percent.StringFixed(2))
	assert.True(t, d.Active)
	assert.Nil(t, d.CategoryID)

	cat := int64(1)
	d, err = uc.Create(ctx, dto.DiscountRequest{Name: "Poesía", Percent: decimal.NewFromInt(25), Scope: "category", CategoryID: &cat})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountScopeCategory, d.Scope)
	assert.Equal(t, "Poesía", d.CategoryName)

	cases := []dto.DiscountRequest{
		{Name: "", Percent: decimal.NewFromInt(10)},
		{Name: "x", Percent: decimal.Zero},
		{Name: "x", Percent: decimal.NewFromInt(101)},
		{Name: "x", Percent: decimal.NewFromInt(10), Scope: "TIENDA"},
		{Name: "x", Percent: decimal.NewFromInt(10), Scope: entity.DiscountScopeCategory},
		{Name: "x", Percent: decimal.NewFromInt(10), Scope: entity.DiscountScopeCategory, CategoryID: ptrInt64(99)},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = uc.Create(ctx, dto.DiscountRequest{Name: "x", Percent: decimal.NewFromInt(5), StartDate: &start, EndDate: ptrTime(start.Add(-time.Hour))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiscountActive_VentanaYToggle(t *testing.T) {
	uc, _ := newDiscountUC(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	vigente, err := uc.Create(ctx, dto.DiscountRequest{Name: "Vigente", Percent: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.DiscountRequest{Name: "Caducado", Percent: decimal.NewFromInt(30), EndDate: ptrTime(now.Add(-time.Hour))})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.DiscountRequest{Name: "Futuro", Percent: decimal.NewFromInt(40), StartDate: ptrTime(now.Add(time.Hour))})
	require.NoError(t, err)

	active, err := uc.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Vigente", active[0].Name)

	off, err := uc.Toggle(ctx, vigente.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)
	active, err = uc.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Futuro", all[0].Name, "ordenados por porcentaje")

	_, err = uc.Toggle(ctx, 999, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, 999), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, vigente.ID))
}

func TestDiscountUpdate_CambiaAmbito(t *testing.T) {
	uc, _ := newDiscountUC(t)
	ctx := context.Background()
	cat := int64(1)
	d, err := uc.Create(ctx, dto.DiscountRequest{Name: "Poesía", Percent: decimal.NewFromInt(25), Scope: entity.DiscountScopeCategory, CategoryID: &cat})
	require.NoError(t, err)

	got, err := uc.Update(ctx, d.ID, dto.DiscountRequest{Name: "Todo", Percent: decimal.NewFromInt(5), Scope: entity.DiscountScopeGlobal, CategoryID: &cat})
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountScopeGlobal, got.Scope)
	assert.Nil(t, got.CategoryID, "un descuento global no guarda categoría")
	assert.Empty(t, got.CategoryName)

	missing, err := uc.Update(ctx, 999, dto.DiscountRequest{Name: "x", Percent: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBestDiscount_NoSeAcumulan(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	poesia, novela := int64(1), int64(2)
	rules := []*entity.DiscountRule{
		{Percent: decimal.NewFromInt(10), Scope: entity.DiscountScopeGlobal, Active: true},
		{Percent: decimal.NewFromInt(25), Scope: entity.DiscountScopeCategory, CategoryID: &poesia, Active: true},
		{Percent: decimal.NewFromInt(60), Scope: entity.DiscountScopeCategory, CategoryID: &novela, Active: false},
		{Percent: decimal.NewFromInt(70), Scope: entity.DiscountScopeGlobal, Active: true, EndDate: ptrTime(now.Add(-time.Minute))},
	}
	assert.Equal(t, "25", entity.BestDiscount(rules, &poesia, now).String())
	assert.Equal(t, "10", entity.BestDiscount(rules, &novela, now).String())
	assert.Equal(t, "10", entity.BestDiscount(rules, nil, now).String())
	assert.True(t, entity.BestDiscount(nil, &poesia, now).IsZero())
}

func TestBookPrecioDeVentaConDescuento(t *testing.T) {
	poesia := int64(1)
	books := fakes.NewBooks(
		&entity.Book{Code: "000001", Title: "Campos de Castilla", Price: decimal.NewFromInt(20), CategoryID: &poesia, Active: true},
		&entity.Book{Code: "000002", Title: "Niebla", Price: decimal.NewFromInt(10), Active: true},
	)
	uc := NewBookUseCase(books, nil).WithDiscounts(&fakes.DiscountRules{Rules: []*entity.DiscountRule{
		{Percent: decimal.NewFromInt(10), Scope: entity.DiscountScopeGlobal, Active: true},
		{Percent: decimal.NewFromInt(25), Scope: entity.DiscountScopeCategory, CategoryID: &poesia, Active: true},
	}})
	ctx := context.Background()

	b, err := uc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "20.00", b.Price.StringFixed(2))
	assert.Equal(t, "15.00", b.SalePrice.StringFixed(2))
	assert.Equal(t, "25", b.DiscountPercent.String())

	b, err = uc.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "9.00", b.SalePrice.StringFixed(2))

	sinDescuentos := NewBookUseCase(books, nil)
	b, err = sinDescuentos.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "10.00", b.SalePrice.StringFixed(2))
	assert.True(t, b.DiscountPercent.IsZero())
}
