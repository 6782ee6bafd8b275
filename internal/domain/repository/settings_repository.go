package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// SettingsRepository guarda un blob JSON por categoría.
type SettingsRepository interface {
	Get(ctx context.Context, category string) (*entity.Setting, error)
	List(ctx context.Context) ([]*entity.Setting, error)
	Upsert(ctx context.Context, s *entity.Setting) error
	Delete(ctx context.Context, category string) error
}

// BannerRepository banners de marketing.
type BannerRepository interface {
	Create(ctx context.Context, b *entity.Banner) error
	GetByID(ctx context.Context, id string) (*entity.Banner, error)
	Update(ctx context.Context, b *entity.Banner) error
	Delete(ctx context.Context, id string) error
	// List ordenados por prioridad y fecha de creación descendente.
	List(ctx context.Context, onlyActive bool) ([]*entity.Banner, error)
}

// DiscountRepository descuentos globales y por categoría.
type DiscountRepository interface {
	Create(ctx context.Context, d *entity.DiscountRule) error
	GetByID(ctx context.Context, id int64) (*entity.DiscountRule, error)
	Update(ctx context.Context, d *entity.DiscountRule) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	// List ordenados por porcentaje descendente.
	List(ctx context.Context, onlyActive bool) ([]*entity.DiscountRule, error)
}
