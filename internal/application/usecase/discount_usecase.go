package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

var _ ports.DiscountProvider = (*DiscountUseCase)(nil)

// DiscountUseCase descuentos globales y por categoría.
type DiscountUseCase struct {
	repo       repository.DiscountRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewDiscountUseCase construye el caso de uso. categories puede ser nil (sin comprobar la categoría).
func NewDiscountUseCase(repo repository.DiscountRepository, categories repository.CategoryRepository) *DiscountUseCase {
	return &DiscountUseCase{repo: repo, categories: categories, now: time.Now}
}

func (uc *DiscountUseCase) Create(ctx context.Context, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	d := &entity.DiscountRule{Active: true, CreatedAt: uc.now()}
	if err := uc.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDiscountResponse(d), nil
}

func (uc *DiscountUseCase) Update(ctx context.Context, id int64, in dto.DiscountRequest) (*dto.DiscountResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	if err := uc.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDiscountResponse(d), nil
}

func (uc *DiscountUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

// Toggle activa o desactiva sin tocar el resto de campos.
func (uc *DiscountUseCase) Toggle(ctx context.Context, id int64, active bool) (*dto.DiscountResponse, error) {
	if err := uc.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return toDiscountResponse(d), nil
}

// List todos los descuentos, de mayor a menor porcentaje.
func (uc *DiscountUseCase) List(ctx context.Context) ([]dto.DiscountResponse, error) {
	list, err := uc.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return toDiscountResponses(list), nil
}

// Active descuentos vigentes ahora, para la tienda.
func (uc *DiscountUseCase) Active(ctx context.Context) ([]dto.DiscountResponse, error) {
	list, err := uc.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	return toDiscountResponses(list), nil
}

// ActiveRules reglas activas dentro de su ventana de fechas.
func (uc *DiscountUseCase) ActiveRules(ctx context.Context) ([]*entity.DiscountRule, error) {
	list, err := uc.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("descuentos activos: %w", err)
	}
	now := uc.now()
	out := make([]*entity.DiscountRule, 0, len(list))
	for _, d := range list {
		if d.IsLive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (uc *DiscountUseCase) apply(ctx context.Context, d *entity.DiscountRule, in dto.DiscountRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !in.Percent.IsPositive() || in.Percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: el porcentaje debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	scope := strings.ToUpper(strings.TrimSpace(in.Scope))
	if scope == "" {
		scope = entity.DiscountScopeGlobal
	}
	if !entity.IsValidDiscountScope(scope) {
		return fmt.Errorf("%w: ámbito %q", domain.ErrInvalidInput, in.Scope)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: la fecha de fin es anterior a la de inicio", domain.ErrInvalidInput)
	}
	var categoryID *int64
	categoryName := ""
	if scope == entity.DiscountScopeCategory {
		if in.CategoryID == nil || *in.CategoryID <= 0 {
			return fmt.Errorf("%w: falta la categoría del descuento", domain.ErrInvalidInput)
		}
		if uc.categories != nil {
			c, err := uc.categories.GetByID(ctx, *in.CategoryID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
			}
			categoryName = c.Name
		}
		id := *in.CategoryID
		categoryID = &id
	}
	d.Name = name
	d.Percent = in.Percent.Round(2)
	d.Scope = scope
	d.CategoryID = categoryID
	d.CategoryName = categoryName
	d.StartDate = in.StartDate
	d.EndDate = in.EndDate
	if in.Active != nil {
		d.Active = *in.Active
	}
	return nil
}

func toDiscountResponses(list []*entity.DiscountRule) []dto.DiscountResponse {
	out := make([]dto.DiscountResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDiscountResponse(d))
	}
	return out
}

func toDiscountResponse(d *entity.DiscountRule) *dto.DiscountResponse {
	return &dto.DiscountResponse{
		ID:           d.ID,
		Name:         d.Name,
		Percent:      d.Percent,
		Scope:        d.Scope,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		Active:       d.Active,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		CreatedAt:    d.CreatedAt,
	}
}
