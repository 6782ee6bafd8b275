package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	Delete(ctx context.Context, id string) error
	// List ordenado por apellidos y nombre.
	List(ctx context.Context, query string, limit, offset int) ([]*entity.Client, int, error)
	// FindCandidates clientes cuyo nombre/apellidos contienen name, o con el teléfono o email dados.
	FindCandidates(ctx context.Context, name, phone, email string) ([]*entity.Client, error)
	ListAll(ctx context.Context) ([]*entity.Client, error)
}
