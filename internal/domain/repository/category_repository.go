package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]*entity.Category, error)
	// MoveBooks reasigna los libros de la categoría from a into y devuelve cuántos se movieron.
	MoveBooks(ctx context.Context, from, into int64) (int64, error)
}

// LocationRepository define el puerto de persistencia para Location (ubicaciones).
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	Update(ctx context.Context, l *entity.Location) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool) ([]*entity.Location, error)
}

// PublisherRepository define el puerto de persistencia para Publisher (editoriales).
type PublisherRepository interface {
	Create(ctx context.Context, p *entity.Publisher) error
	GetByID(ctx context.Context, id int64) (*entity.Publisher, error)
	Update(ctx context.Context, p *entity.Publisher) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.Publisher, error)
	// Search por nombre sin distinguir mayúsculas, como mucho limit resultados.
	Search(ctx context.Context, q string, limit int) ([]*entity.Publisher, error)
}
