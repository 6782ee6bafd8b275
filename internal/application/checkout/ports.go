package checkout

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// TxRunner transacción del checkout: crea el pedido, lo audita y vacía el carrito de forma atómica.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		orders repository.OrderRepository,
		stock repository.StockRepository,
		cart repository.CartRepository,
		audit repository.AuditRepository,
	) error) error
}
