package order

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de estado, el stock y la auditoría se confirman juntos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orders repository.OrderRepository,
		stock repository.StockRepository,
		audit repository.AuditRepository,
	) error) error
}

// Notifier recibe los cambios de estado ya confirmados para avisar al cliente.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, o *entity.Order, status string)
}

type nopNotifier struct{}

func (nopNotifier) OrderStatusChanged(context.Context, *entity.Order, string) {}
