package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// BannerUseCase banners de marketing de la tienda.
type BannerUseCase struct {
	repo repository.BannerRepository
	now  func() time.Time
}

// NewBannerUseCase construye el caso de uso.
func NewBannerUseCase(repo repository.BannerRepository) *BannerUseCase {
	return &BannerUseCase{repo: repo, now: time.Now}
}

func (uc *BannerUseCase) Create(ctx context.Context, in dto.BannerRequest) (*dto.BannerResponse, error) {
	now := uc.now()
	b := &entity.Banner{ID: uuid.New().String(), Active: true, CreatedAt: now}
	if err := applyBannerRequest(b, in); err != nil {
		return nil, err
	}
	b.UpdatedAt = now
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBannerResponse(b), nil
}

func (uc *BannerUseCase) Update(ctx context.Context, id string, in dto.BannerRequest) (*dto.BannerResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	if err := applyBannerRequest(b, in); err != nil {
		return nil, err
	}
	b.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBannerResponse(b), nil
}

func (uc *BannerUseCase) Delete(ctx context.Context, id string) error {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *BannerUseCase) List(ctx context.Context) ([]dto.BannerResponse, error) {
	list, err := uc.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BannerResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBannerResponse(b))
	}
	return out, nil
}

// Active banner vigente para la tienda: el primero (por prioridad y fecha de
// creación) activo y dentro de su ventana de fechas. (nil, nil) si no hay ninguno.
func (uc *BannerUseCase) Active(ctx context.Context) (*dto.BannerResponse, error) {
	list, err := uc.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	for _, b := range list {
		if b.IsLive(now) {
			return toBannerResponse(b), nil
		}
	}
	return nil, nil
}

func applyBannerRequest(b *entity.Banner, in dto.BannerRequest) error {
	t := in.Type
	if t == "" {
		t = entity.BannerImage
	}
	if !entity.IsValidBannerType(t) {
		return domain.ErrInvalidInput
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: descuento fuera de rango", domain.ErrInvalidInput)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: la fecha de fin es anterior a la de inicio", domain.ErrInvalidInput)
	}
	b.Title = strings.TrimSpace(in.Title)
	b.Subtitle = strings.TrimSpace(in.Subtitle)
	b.ImageURL = in.ImageURL
	b.LinkURL = in.LinkURL
	b.Type = t
	b.DiscountPercent = in.DiscountPercent
	b.StartDate = in.StartDate
	b.EndDate = in.EndDate
	b.Priority = in.Priority
	if in.Active != nil {
		b.Active = *in.Active
	}
	return nil
}

func toBannerResponse(b *entity.Banner) *dto.BannerResponse {
	return &dto.BannerResponse{
		ID:              b.ID,
		Title:           b.Title,
		Subtitle:        b.Subtitle,
		ImageURL:        b.ImageURL,
		LinkURL:         b.LinkURL,
		Type:            b.Type,
		DiscountPercent: b.DiscountPercent,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Active:          b.Active,
		Priority:        b.Priority,
		CreatedAt:       b.CreatedAt,
	}
}
