package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

const publisherSearchLimit = 50

// PublisherUseCase editoriales para el autocompletado.
type PublisherUseCase struct {
	repo repository.PublisherRepository
}

func NewPublisherUseCase(repo repository.PublisherRepository) *PublisherUseCase {
	return &PublisherUseCase{repo: repo}
}

func (uc *PublisherUseCase) List(ctx context.Context) ([]dto.PublisherResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toPublisherResponses(list), nil
}

// Search sin texto devuelve lista vacía.
func (uc *PublisherUseCase) Search(ctx context.Context, q string) ([]dto.PublisherResponse, error) {
	q = textnorm.CollapseSpaces(q)
	if q == "" {
		return []dto.PublisherResponse{}, nil
	}
	list, err := uc.repo.Search(ctx, q, publisherSearchLimit)
	if err != nil {
		return nil, err
	}
	return toPublisherResponses(list), nil
}

func (uc *PublisherUseCase) Create(ctx context.Context, in dto.PublisherRequest) (*dto.PublisherResponse, error) {
	p := &entity.Publisher{Name: textnorm.CollapseSpaces(in.Name)}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PublisherResponse{ID: p.ID, Name: p.Name}, nil
}

func (uc *PublisherUseCase) Update(ctx context.Context, id int64, in dto.PublisherRequest) (*dto.PublisherResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	p.Name = textnorm.CollapseSpaces(in.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PublisherResponse{ID: p.ID, Name: p.Name}, nil
}

func (uc *PublisherUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func toPublisherResponses(list []*entity.Publisher) []dto.PublisherResponse {
	out := make([]dto.PublisherResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PublisherResponse{ID: p.ID, Name: p.Name})
	}
	return out
}
