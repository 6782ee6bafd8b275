package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/testutil/fakes"
)

func TestSettingsGet_PorDefecto(t *testing.T) {
	uc := NewSettingsUseCase(fakes.NewSettingsRepo())
	ctx := context.Background()

	s, err := uc.Get(ctx, entity.SettingsBilling)
	require.NoError(t, err)
	assert.True(t, s.IsDefault)
	assert.Nil(t, s.UpdatedAt)

	var b entity.BillingSettings
	require.NoError(t, json.Unmarshal(s.Value, &b))
	assert.Equal(t, "EUR", b.Currency)
	assert.Equal(t, 21.0, b.TaxRate)

	_, err = uc.Get(ctx, "colores")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsUpdate_SuperponeSobreLoGuardado(t *testing.T) {
	repo := fakes.NewSettingsRepo()
	uc := NewSettingsUseCase(repo)
	ctx := context.Background()

	_, err := uc.Update(ctx, entity.SettingsBilling, json.RawMessage(`{"taxRate":10}`), "u1")
	require.NoError(t, err)
	s, err := uc.Update(ctx, entity.SettingsBilling, json.RawMessage(`{"invoicePrefix":"FAC"}`), "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", s.UpdatedBy)

	b, err := uc.Billing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.TaxRate)
	assert.Equal(t, "FAC", b.InvoicePrefix)
	assert.Equal(t, "EUR", b.Currency)

	got, err := uc.Get(ctx, entity.SettingsBilling)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	require.NotNil(t, got.UpdatedAt)
}

func TestSettingsUpdate_Validacion(t *testing.T) {
	repo := fakes.NewSettingsRepo()
	uc := NewSettingsUseCase(repo)
	ctx := context.Background()

	_, err := uc.Update(ctx, entity.SettingsBilling, json.RawMessage(`{"taxRate":150}`), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, entity.SettingsBilling, json.RawMessage(`{"currency":"COP"}`), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, entity.SettingsSecurity, json.RawMessage(`{"sessionTimeout":"mucho"}`), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, entity.SettingsIntegrations, json.RawMessage(`{"abeBooks":{"ftps":{"minPrice":-1}}}`), "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.Items)
}

func TestSettingsReset(t *testing.T) {
	uc := NewSettingsUseCase(fakes.NewSettingsRepo())
	ctx := context.Background()
	_, err := uc.Update(ctx, entity.SettingsIntegrations, json.RawMessage(`{"abeBooks":{"enabled":true}}`), "u1")
	require.NoError(t, err)

	cfg, err := uc.Integrations(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.AbeBooks.Enabled)
	assert.Equal(t, 12.0, cfg.AbeBooks.FTPS.MinPrice)

	s, err := uc.Reset(ctx, entity.SettingsIntegrations)
	require.NoError(t, err)
	assert.True(t, s.IsDefault)
	cfg, err = uc.Integrations(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.AbeBooks.Enabled)

	_, err = uc.Reset(ctx, "otra")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsGetAll_OrdenEstable(t *testing.T) {
	all, err := NewSettingsUseCase(fakes.NewSettingsRepo()).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, len(entity.SettingsCategories))
	for i, c := range entity.SettingsCategories {
		assert.Equal(t, c, all[i].Category)
	}
}

func TestSettingsCorrupto(t *testing.T) {
	repo := fakes.NewSettingsRepo()
	repo.Items[entity.SettingsCompany] = &entity.Setting{Category: entity.SettingsCompany, Value: json.RawMessage(`{"name":`)}
	_, err := NewSettingsUseCase(repo).Company(context.Background())
	assert.Error(t, err)
}
