package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// CategoryUseCase CRUD de categorías y fusión de duplicadas.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create alta de categoría con el nombre en formato título.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := textnorm.TitleCase(textnorm.CollapseSpaces(in.Name))
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.repo.GetByName(ctx, name); existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update edición completa.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	name := textnorm.TitleCase(textnorm.CollapseSpaces(in.Name))
	if name != c.Name {
		if other, _ := uc.repo.GetByName(ctx, name); other != nil && other.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	if in.Active != nil {
		c.Active = *in.Active
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) List(ctx context.Context, onlyActive bool) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete borra una categoría sin libros; si tiene libros hay que fusionarla antes.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if c.BookCount > 0 {
		return fmt.Errorf("%w: la categoría tiene %d libros", domain.ErrConflict, c.BookCount)
	}
	return uc.repo.Delete(ctx, id)
}

// Merge mueve los libros de from a into y desactiva from.
func (uc *CategoryUseCase) Merge(ctx context.Context, from, into int64) (*dto.MergeCategoriesResponse, error) {
	if from == into {
		return nil, domain.ErrInvalidInput
	}
	src, err := uc.repo.GetByID(ctx, from)
	if err != nil {
		return nil, err
	}
	dst, err := uc.repo.GetByID(ctx, into)
	if err != nil {
		return nil, err
	}
	if src == nil || dst == nil {
		return nil, domain.ErrNotFound
	}
	moved, err := uc.repo.MoveBooks(ctx, from, into)
	if err != nil {
		return nil, fmt.Errorf("fusionar categorías: %w", err)
	}
	src.Active = false
	src.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, src); err != nil {
		return nil, err
	}
	return &dto.MergeCategoriesResponse{Moved: moved}, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		BookCount:   c.BookCount,
		CreatedAt:   c.CreatedAt,
	}
}

// LocationUseCase CRUD de ubicaciones.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

func (uc *LocationUseCase) Create(ctx context.Context, in dto.LocationRequest) (*dto.LocationResponse, error) {
	l := &entity.Location{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

func (uc *LocationUseCase) Update(ctx context.Context, id int64, in dto.LocationRequest) (*dto.LocationResponse, error) {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	l.Name = strings.TrimSpace(in.Name)
	l.Description = strings.TrimSpace(in.Description)
	if in.Active != nil {
		l.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

func (uc *LocationUseCase) List(ctx context.Context, onlyActive bool) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

func (uc *LocationUseCase) Delete(ctx context.Context, id int64) error {
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
	}
}
