package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create inserta el pedido y sus líneas; asigna IDs.
	Create(ctx context.Context, o *entity.Order) error
	// GetByID pedido con líneas.
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// GetForUpdate igual que GetByID bloqueando la fila del pedido.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Order, error)
	List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, int, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status, notes string) error
	UpdateTotals(ctx context.Context, o *entity.Order) error
	UpdateShipping(ctx context.Context, id int64, carrier, tracking string) error
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
	// ExistsExternalRef indica si ya hay un pedido del tipo con esa referencia de marketplace.
	ExistsExternalRef(ctx context.Context, orderType, ref string) (bool, error)
	AddLine(ctx context.Context, line *entity.OrderLine) error
	DeleteLine(ctx context.Context, orderID, lineID int64) error
	Stats(ctx context.Context) (*entity.OrderStats, error)
	TopSelling(ctx context.Context, limit int) ([]entity.TopSellingItem, error)
	CountByStatus(ctx context.Context, statuses ...string) (int, error)
}

// AuditRepository registro de auditoría.
type AuditRepository interface {
	Insert(ctx context.Context, e *entity.AuditEntry) error
}
