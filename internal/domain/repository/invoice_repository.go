package repository

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create inserta factura y líneas. Devuelve ErrDuplicate si el pedido ya tiene factura.
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID int64) (*entity.Invoice, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, int, error)
	ListAll(ctx context.Context) ([]*entity.Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// NextSequence siguiente correlativo para prefijo+año.
	NextSequence(ctx context.Context, prefix string, year int) (int, error)
}

// MarketplaceOrderRepository caché local de pedidos AbeBooks.
type MarketplaceOrderRepository interface {
	Upsert(ctx context.Context, o *entity.MarketplaceOrder) error
	List(ctx context.Context, f entity.MarketplaceOrderFilter, limit int) ([]*entity.MarketplaceOrder, error)
	GetByExternalID(ctx context.Context, id string) (*entity.MarketplaceOrder, error)
}
