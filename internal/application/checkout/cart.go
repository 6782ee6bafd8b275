package checkout

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain/catalog"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// NormalizeCartItems descarta IDs y cantidades inválidas y suma los duplicados.
// El resultado queda ordenado por ID de libro.
func NormalizeCartItems(items []dto.CartItemRequest) []dto.CartItemRequest {
	merged := map[int64]int{}
	for _, it := range items {
		if it.BookID <= 0 || it.Quantity < entity.CartMinQuantity || it.Quantity > entity.CartMaxQuantity {
			continue
		}
		merged[it.BookID] += it.Quantity
	}
	out := make([]dto.CartItemRequest, 0, len(merged))
	for id, q := range merged {
		if q > entity.CartMaxQuantity {
			q = entity.CartMaxQuantity
		}
		out = append(out, dto.CartItemRequest{BookID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}

// ReplaceCart sustituye el carrito del usuario. Una lista vacía lo vacía.
func (uc *UseCase) ReplaceCart(ctx context.Context, userID string, items []dto.CartItemRequest) (*dto.CartResponse, error) {
	norm := NormalizeCartItems(items)
	if len(norm) == 0 {
		if err := uc.cart.Clear(ctx, userID); err != nil {
			return nil, err
		}
		return uc.GetCart(ctx, userID)
	}
	ids := make([]int64, 0, len(norm))
	for _, it := range norm {
		ids = append(ids, it.BookID)
	}
	books, err := uc.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	keep := make([]int64, 0, len(norm))
	for _, it := range norm {
		if b, ok := books[it.BookID]; !ok || !b.Active {
			continue
		}
		if err := uc.cart.Upsert(ctx, userID, it.BookID, it.Quantity); err != nil {
			return nil, err
		}
		keep = append(keep, it.BookID)
	}
	if err := uc.cart.DeleteExcept(ctx, userID, keep); err != nil {
		return nil, err
	}
	return uc.GetCart(ctx, userID)
}

// GetCart carrito con datos del libro y subtotal por línea.
func (uc *UseCase) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	items, err := uc.cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	prices, err := uc.salePrices(ctx)
	if err != nil {
		return nil, err
	}
	return toCartResponse(items, prices), nil
}

// salePrices descuentos vigentes en el momento de leer el carrito o cerrar el pedido.
type salePrices struct {
	rules []*entity.DiscountRule
	now   time.Time
}

func (uc *UseCase) salePrices(ctx context.Context) (salePrices, error) {
	p := salePrices{now: time.Now()}
	if uc.discounts == nil {
		return p, nil
	}
	rules, err := uc.discounts.ActiveRules(ctx)
	if err != nil {
		return p, err
	}
	p.rules = rules
	return p, nil
}

func (p salePrices) of(b *entity.Book) decimal.Decimal {
	return catalog.ApplyDiscount(b.Price, entity.BestDiscount(p.rules, b.CategoryID, p.now))
}

func toCartResponse(items []*entity.CartItem, prices salePrices) *dto.CartResponse {
	res := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		if it.Book == nil {
			continue
		}
		price := prices.of(it.Book)
		sub := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		res.Items = append(res.Items, dto.CartItemResponse{
			BookID:    it.BookID,
			Code:      it.Book.Code,
			Title:     it.Book.Title,
			Author:    it.Book.Author,
			CoverURL:  it.Book.CoverURL,
			Price:     price,
			ListPrice: it.Book.Price,
			Stock:     it.Book.Stock,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
		res.Total = res.Total.Add(sub)
		res.Count += it.Quantity
	}
	return res
}
