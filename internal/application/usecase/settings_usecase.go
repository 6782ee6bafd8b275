package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ ports.SettingsProvider = (*SettingsUseCase)(nil)

// SettingsUseCase configuración de negocio: un blob JSON por categoría.
// Lo guardado se superpone a los valores por defecto, así los campos nuevos
// siempre tienen valor.
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	validate *validator.Validate
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, validate: validator.New()}
}

// defaultFor devuelve un puntero al valor por defecto tipado de la categoría.
func defaultFor(category string) (interface{}, error) {
	d := entity.DefaultSettings()
	switch category {
	case entity.SettingsCompany:
		return &d.Company, nil
	case entity.SettingsBilling:
		return &d.Billing, nil
	case entity.SettingsShipping:
		return &d.Shipping, nil
	case entity.SettingsSystem:
		return &d.System, nil
	case entity.SettingsSecurity:
		return &d.Security, nil
	case entity.SettingsIntegrations:
		return &d.Integrations, nil
	}
	return nil, fmt.Errorf("%w: categoría de configuración desconocida %q", domain.ErrInvalidInput, category)
}

// load decodifica la categoría guardada sobre su valor por defecto.
func (uc *SettingsUseCase) load(ctx context.Context, category string) (interface{}, *entity.Setting, error) {
	target, err := defaultFor(category)
	if err != nil {
		return nil, nil, err
	}
	row, err := uc.repo.Get(ctx, category)
	if err != nil {
		return nil, nil, fmt.Errorf("settings: leer %s: %w", category, err)
	}
	if row != nil && len(row.Value) > 0 {
		if err := json.Unmarshal(row.Value, target); err != nil {
			return nil, nil, fmt.Errorf("settings: %s corrupto: %w", category, err)
		}
	}
	return target, row, nil
}

// Get devuelve una categoría (con valores por defecto si no está guardada).
func (uc *SettingsUseCase) Get(ctx context.Context, category string) (*dto.SettingResponse, error) {
	value, row, err := uc.load(ctx, category)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	out := &dto.SettingResponse{Category: category, Value: raw, IsDefault: row == nil}
	if row != nil {
		t := row.UpdatedAt
		out.UpdatedAt = &t
		out.UpdatedBy = row.UpdatedBy
	}
	return out, nil
}

// GetAll devuelve todas las categorías en orden estable.
func (uc *SettingsUseCase) GetAll(ctx context.Context) ([]dto.SettingResponse, error) {
	out := make([]dto.SettingResponse, 0, len(entity.SettingsCategories))
	for _, c := range entity.SettingsCategories {
		s, err := uc.Get(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// Update valida y guarda una categoría. Los campos omitidos conservan su valor actual.
func (uc *SettingsUseCase) Update(ctx context.Context, category string, raw json.RawMessage, userID string) (*dto.SettingResponse, error) {
	current, _, err := uc.load(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, current); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.validate.Struct(current); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	normalized, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	row := &entity.Setting{Category: category, Value: normalized, UpdatedAt: time.Now(), UpdatedBy: userID}
	if err := uc.repo.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("settings: guardar %s: %w", category, err)
	}
	t := row.UpdatedAt
	return &dto.SettingResponse{Category: category, Value: normalized, UpdatedAt: &t, UpdatedBy: userID}, nil
}

// Reset restablece una categoría a sus valores por defecto.
func (uc *SettingsUseCase) Reset(ctx context.Context, category string) (*dto.SettingResponse, error) {
	if _, err := defaultFor(category); err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, category); err != nil {
		return nil, fmt.Errorf("settings: reset %s: %w", category, err)
	}
	return uc.Get(ctx, category)
}

func (uc *SettingsUseCase) Company(ctx context.Context) (entity.CompanySettings, error) {
	v, _, err := uc.load(ctx, entity.SettingsCompany)
	if err != nil {
		return entity.CompanySettings{}, err
	}
	return *v.(*entity.CompanySettings), nil
}

func (uc *SettingsUseCase) Billing(ctx context.Context) (entity.BillingSettings, error) {
	v, _, err := uc.load(ctx, entity.SettingsBilling)
	if err != nil {
		return entity.BillingSettings{}, err
	}
	return *v.(*entity.BillingSettings), nil
}

func (uc *SettingsUseCase) Shipping(ctx context.Context) (entity.ShippingSettings, error) {
	v, _, err := uc.load(ctx, entity.SettingsShipping)
	if err != nil {
		return entity.ShippingSettings{}, err
	}
	return *v.(*entity.ShippingSettings), nil
}

func (uc *SettingsUseCase) Integrations(ctx context.Context) (entity.IntegrationsSettings, error) {
	v, _, err := uc.load(ctx, entity.SettingsIntegrations)
	if err != nil {
		return entity.IntegrationsSettings{}, err
	}
	return *v.(*entity.IntegrationsSettings), nil
}
