package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
)

// ChangeStatus cambia el estado del pedido aplicando, en la misma transacción,
// el efecto sobre el stock y el registro de auditoría. Si notes está vacío se
// conservan las observaciones actuales. Tras confirmar se notifica al cliente.
func (uc *UseCase) ChangeStatus(ctx context.Context, id int64, status, notes, actorID string) (*entity.Order, error) {
	if !domorder.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	var updated *entity.Order
	err := uc.tx.RunOrder(ctx, func(orders repository.OrderRepository, stock repository.StockRepository, audit repository.AuditRepository) error {
		o, err := orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		prev := o.Status
		if !domorder.CanTransition(o.Type, prev, status) {
			return fmt.Errorf("%w: de %s a %s", domain.ErrInvalidTransition, domorder.Label(prev), domorder.Label(status))
		}
		if err := uc.applyStock(ctx, stock, o, domorder.EffectOf(o.Type, prev, status)); err != nil {
			return err
		}
		if notes != "" {
			o.Notes = notes
		}
		if err := orders.UpdateStatus(ctx, id, status, o.Notes); err != nil {
			return err
		}
		o.Status = status
		o.UpdatedAt = uc.now()
		updated = o
		return audit.Insert(ctx, &entity.AuditEntry{
			Table:     "pedidos",
			RecordID:  fmt.Sprint(id),
			Action:    "UPDATE",
			OldValue:  map[string]interface{}{"estado": prev},
			NewValue:  map[string]interface{}{"estado": status},
			UserID:    actorID,
			CreatedAt: o.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("pedido_id", id).Str("estado", status).Str("usuario", actorID).Msg("estado de pedido actualizado")
	uc.notifier.OrderStatusChanged(ctx, updated, status)
	return updated, nil
}

// bookQuantities agrupa las unidades de las líneas internas por libro, en orden de ID
// para bloquear filas siempre en el mismo orden.
func bookQuantities(lines []*entity.OrderLine) ([]int64, map[int64]int) {
	qty := map[int64]int{}
	for _, l := range lines {
		if l.BookID != nil {
			qty[*l.BookID] += l.Quantity
		}
	}
	ids := make([]int64, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, qty
}

func (uc *UseCase) applyStock(ctx context.Context, stock repository.StockRepository, o *entity.Order, effect domorder.StockEffect) error {
	if effect == domorder.StockNone {
		return nil
	}
	ids, qty := bookQuantities(o.Lines)
	current := make(map[int64]int, len(ids))
	for _, id := range ids {
		s, err := stock.GetStockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		current[id] = s
	}
	if effect == domorder.StockDeduct {
		for _, id := range ids {
			if current[id] < qty[id] {
				return fmt.Errorf("%w: libro %d (disponible %d, solicitado %d)", domain.ErrInsufficientStock, id, current[id], qty[id])
			}
		}
	}
	for _, id := range ids {
		next := current[id]
		switch effect {
		case domorder.StockDeduct:
			next -= qty[id]
		case domorder.StockDeductForce:
			next -= qty[id]
			if next < 0 {
				uc.log.Warn().Int64("pedido_id", o.ID).Int64("libro_id", id).Int("stock", current[id]).Int("cantidad", qty[id]).
					Msg("stock insuficiente al enviar; se deja en cero")
				next = 0
			}
		case domorder.StockRestore:
			next += qty[id]
		}
		if err := stock.SetStock(ctx, id, next); err != nil {
			return err
		}
	}
	return nil
}
