package ports

import (
	"context"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// InventoryAction operación sobre un anuncio en el marketplace.
type InventoryAction string

const (
	InventoryAdd    InventoryAction = "add"
	InventoryDelete InventoryAction = "delete"
)

// InventoryItem anuncio a publicar o retirar.
type InventoryItem struct {
	Action InventoryAction
	Book   *entity.Book
}

// InventoryResult resultado por SKU devuelto por el marketplace.
type InventoryResult struct {
	SKU     string
	Success bool
	Code    string
	Message string
}

// MarketplaceClient cliente del API XML de AbeBooks.
type MarketplaceClient interface {
	UpdateInventory(ctx context.Context, items []InventoryItem) ([]InventoryResult, error)
	FetchNewOrders(ctx context.Context) ([]*entity.MarketplaceOrder, error)
}
