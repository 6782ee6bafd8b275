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

func ptrTime(t time.Time) *time.Time { return &t }

func TestBannerCreateValida(t *testing.T) {
	uc := NewBannerUseCase(fakes.NewBanners())
	ctx := context.Background()

	b, err := uc.Create(ctx, dto.BannerRequest{Title: "  Rebajas  "})
	require.NoError(t, err)
	assert.Equal(t, "Rebajas", b.Title)
	assert.Equal(t, entity.BannerImage, b.Type)
	assert.True(t, b.Active)

	_, err = uc.Create(ctx, dto.BannerRequest{Title: "x", Type: "video"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "x", DiscountPercent: decimal.NewFromInt(120)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "x", StartDate: &start, EndDate: ptrTime(start.Add(-time.Hour))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBannerActive_PrioridadYVentana(t *testing.T) {
	repo := fakes.NewBanners()
	uc := NewBannerUseCase(repo)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	off := false
	_, err := uc.Create(ctx, dto.BannerRequest{Title: "Inactivo", Priority: 9, Active: &off})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "Caducado", Priority: 8, EndDate: ptrTime(now.Add(-24 * time.Hour))})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "Futuro", Priority: 7, StartDate: ptrTime(now.Add(24 * time.Hour))})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "Bajo", Priority: 1})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.BannerRequest{Title: "Vigente", Priority: 5, Type: entity.BannerDiscount, DiscountPercent: decimal.NewFromInt(10)})
	require.NoError(t, err)

	got, err := uc.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Vigente", got.Title)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestBannerActive_Ninguno(t *testing.T) {
	got, err := NewBannerUseCase(fakes.NewBanners()).Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBannerUpdateYDelete(t *testing.T) {
	uc := NewBannerUseCase(fakes.NewBanners())
	ctx := context.Background()
	b, err := uc.Create(ctx, dto.BannerRequest{Title: "Original"})
	require.NoError(t, err)

	off := false
	upd, err := uc.Update(ctx, b.ID, dto.BannerRequest{Title: "Nuevo", Active: &off})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", upd.Title)
	assert.False(t, upd.Active)

	missing, err := uc.Update(ctx, "nope", dto.BannerRequest{Title: "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, uc.Delete(ctx, b.ID))
	assert.ErrorIs(t, uc.Delete(ctx, b.ID), domain.ErrNotFound)
}

func TestModuleService(t *testing.T) {
	settings := fakes.NewSettings()
	svc := NewModuleService(settings)
	ctx := context.Background()

	on, err := svc.HasActiveModule(ctx, IntegrationAbeBooks)
	require.NoError(t, err)
	assert.False(t, on)

	settings.All.Integrations.AbeBooks.Enabled = true
	on, _ = svc.HasActiveModule(ctx, IntegrationAbeBooks)
	assert.True(t, on)
	on, _ = svc.HasActiveModule(ctx, IntegrationAbeBooksFeed)
	assert.False(t, on)

	settings.All.Integrations.AbeBooks.FTPS.Enabled = true
	on, _ = svc.HasActiveModule(ctx, IntegrationAbeBooksFeed)
	assert.True(t, on)

	_, err = svc.HasActiveModule(ctx, "amazon")
	assert.Error(t, err)
	_, err = svc.HasActiveModule(ctx, "")
	assert.Error(t, err)
}
