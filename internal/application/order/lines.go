package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// isClosed estados en los que ya no se editan las líneas.
func isClosed(status string) bool {
	switch status {
	case entity.OrderStatusCompleted, entity.OrderStatusCancelled, entity.OrderStatusReturned:
		return true
	}
	return false
}

// lineEdit modifica las líneas del pedido y devuelve las unidades por libro que
// salen del stock (positivas) o vuelven a él (negativas).
type lineEdit func(orders repository.OrderRepository, o *entity.Order) (map[int64]int, error)

// AddLine añade una línea y recalcula los totales. Si el pedido ya descontó
// stock, la línea nueva se descuenta en la misma transacción.
func (uc *UseCase) AddLine(ctx context.Context, orderID int64, in dto.OrderLineRequest) (*dto.OrderResponse, error) {
	lines, err := uc.ResolveLines(ctx, []dto.OrderLineRequest{in})
	if err != nil {
		return nil, err
	}
	line := lines[0]
	return uc.editLines(ctx, orderID, func(orders repository.OrderRepository, o *entity.Order) (map[int64]int, error) {
		line.OrderID = o.ID
		if err := orders.AddLine(ctx, line); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
		if line.BookID == nil {
			return nil, nil
		}
		return map[int64]int{*line.BookID: line.Quantity}, nil
	})
}

// DeleteLine elimina una línea y recalcula los totales. Un pedido no puede quedarse sin líneas.
func (uc *UseCase) DeleteLine(ctx context.Context, orderID, lineID int64) (*dto.OrderResponse, error) {
	return uc.editLines(ctx, orderID, func(orders repository.OrderRepository, o *entity.Order) (map[int64]int, error) {
		idx := -1
		for i, l := range o.Lines {
			if l.ID == lineID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, domain.ErrNotFound
		}
		if len(o.Lines) == 1 {
			return nil, fmt.Errorf("%w: el pedido debe tener al menos una línea", domain.ErrConflict)
		}
		if err := orders.DeleteLine(ctx, orderID, lineID); err != nil {
			return nil, err
		}
		removed := o.Lines[idx]
		o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
		if removed.BookID == nil {
			return nil, nil
		}
		return map[int64]int{*removed.BookID: -removed.Quantity}, nil
	})
}

func (uc *UseCase) editLines(ctx context.Context, orderID int64, edit lineEdit) (*dto.OrderResponse, error) {
	rate := uc.TaxRate(ctx)
	var result *entity.Order
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, stock repository.StockRepository, _ repository.AuditRepository) error {
		o, err := orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if isClosed(o.Status) {
			return fmt.Errorf("%w: el pedido está %s", domain.ErrConflict, domorder.Label(o.Status))
		}
		delta, err := edit(orders, o)
		if err != nil {
			return err
		}
		domorder.ComputeTotals(o.Lines, o.ShippingCost, rate).Apply(o)
		if o.Deposit.GreaterThan(o.Total) {
			return fmt.Errorf("%w: la señal (%s) supera el nuevo total (%s)", domain.ErrInvalidInput, o.Deposit.StringFixed(2), o.Total.StringFixed(2))
		}
		if domorder.StockDeducted(o.Type, o.Status) {
			if err := uc.applyLineDelta(ctx, stock, o, delta); err != nil {
				return err
			}
		}
		if err := orders.UpdateTotals(ctx, o); err != nil {
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(result), nil
}

// applyLineDelta ajusta el stock de una edición de líneas en un pedido que ya
// lo descontó. Los pedidos web exigen stock suficiente; el resto se limita a cero.
func (uc *UseCase) applyLineDelta(ctx context.Context, stock repository.StockRepository, o *entity.Order, delta map[int64]int) error {
	for bookID, units := range delta {
		if units == 0 {
			continue
		}
		current, err := stock.GetStockForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		next := current - units
		if next < 0 {
			if o.Type == entity.OrderTypeInternal {
				return fmt.Errorf("%w: libro %d (disponible %d, solicitado %d)", domain.ErrInsufficientStock, bookID, current, units)
			}
			uc.log.Warn().Int64("pedido_id", o.ID).Int64("libro_id", bookID).Int("stock", current).Int("cantidad", units).
				Msg("stock insuficiente al añadir línea; se deja en cero")
			next = 0
		}
		if err := stock.SetStock(ctx, bookID, next); err != nil {
			return err
		}
	}
	return nil
}
