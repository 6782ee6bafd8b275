// Package order contiene la máquina de estados de pedidos y el cálculo de totales.
package order

import (
	"github.com/jhoicas/libreria-api/internal/domain/entity"
)

// AllStatuses orden de presentación de los estados.
var AllStatuses = []string{
	entity.OrderStatusPendingVerification,
	entity.OrderStatusPaymentPending,
	entity.OrderStatusPending,
	entity.OrderStatusProcessing,
	entity.OrderStatusShipped,
	entity.OrderStatusCompleted,
	entity.OrderStatusCancelled,
	entity.OrderStatusReturned,
}

var statusLabels = map[string]string{
	entity.OrderStatusPendingVerification: "Por Verificar",
	entity.OrderStatusPaymentPending:      "Pendiente Pago",
	entity.OrderStatusPending:             "Pendiente",
	entity.OrderStatusProcessing:          "Procesando",
	entity.OrderStatusShipped:             "Enviado",
	entity.OrderStatusCompleted:           "Completado",
	entity.OrderStatusCancelled:           "Cancelado",
	entity.OrderStatusReturned:            "Devolución",
}

// Label etiqueta en español del estado.
func Label(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

// IsValidStatus indica si el estado existe.
func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// IsValidType indica si el tipo de pedido existe.
func IsValidType(t string) bool {
	switch t {
	case entity.OrderTypeInternal, entity.OrderTypeStore, entity.OrderTypeIberLibro, entity.OrderTypeUniliber,
		entity.OrderTypeAbeBooks, entity.OrderTypePerezGaldos, entity.OrderTypeExpress:
		return true
	}
	return false
}

// IsValidPaymentMethod indica si el método de pago existe.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case entity.PaymentCard, entity.PaymentPayPal, entity.PaymentTransfer, entity.PaymentCOD,
		entity.PaymentCash, entity.PaymentBizum:
		return true
	}
	return false
}

// InitialStatus estado de creación: los pedidos web requieren verificación de stock.
func InitialStatus(orderType string) string {
	if orderType == entity.OrderTypeInternal {
		return entity.OrderStatusPendingVerification
	}
	return entity.OrderStatusPending
}

var internalTransitions = map[string][]string{
	entity.OrderStatusPendingVerification: {entity.OrderStatusPaymentPending, entity.OrderStatusCancelled},
	entity.OrderStatusPaymentPending:      {entity.OrderStatusProcessing, entity.OrderStatusCancelled},
	entity.OrderStatusProcessing:          {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:             {entity.OrderStatusCompleted, entity.OrderStatusReturned},
	entity.OrderStatusCompleted:           {entity.OrderStatusReturned},
}

var externalTransitions = map[string][]string{
	// Los pedidos importados antes de esta regla pueden haber quedado en pending_verification.
	entity.OrderStatusPendingVerification: {entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusPending:             {entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusProcessing:          {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:             {entity.OrderStatusCompleted, entity.OrderStatusReturned},
	entity.OrderStatusCompleted:           {entity.OrderStatusReturned},
}

// CanTransition indica si un pedido del tipo dado puede pasar de from a to.
func CanTransition(orderType, from, to string) bool {
	if from == to || !IsValidStatus(to) {
		return false
	}
	table := externalTransitions
	if orderType == entity.OrderTypeInternal {
		table = internalTransitions
	}
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DisplayStatus estado que se muestra: un pedido externo en pending_verification se ve como pendiente.
func DisplayStatus(orderType, status string) string {
	if orderType != entity.OrderTypeInternal && status == entity.OrderStatusPendingVerification {
		return entity.OrderStatusPending
	}
	return status
}

// SelectableStatuses estados que el back-office puede elegir manualmente según el tipo.
func SelectableStatuses(orderType string) []string {
	exclude := map[string]bool{entity.OrderStatusPendingVerification: true}
	if orderType == entity.OrderTypeInternal {
		exclude[entity.OrderStatusPending] = true
	} else {
		exclude[entity.OrderStatusPaymentPending] = true
	}
	out := make([]string, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if !exclude[s] {
			out = append(out, s)
		}
	}
	return out
}

// StockEffect efecto de un cambio de estado sobre el stock de las líneas internas.
type StockEffect int

const (
	StockNone StockEffect = iota
	// StockDeduct descuenta exigiendo stock suficiente (verificación de pedido web).
	StockDeduct
	// StockDeductForce descuenta sin fallar; el stock se limita a cero.
	StockDeductForce
	// StockRestore devuelve las unidades al stock.
	StockRestore
)

// EffectOf decide qué hacer con el stock al pasar de from a to.
func EffectOf(orderType, from, to string) StockEffect {
	internal := orderType == entity.OrderTypeInternal
	switch to {
	case entity.OrderStatusPaymentPending:
		if internal && from == entity.OrderStatusPendingVerification {
			return StockDeduct
		}
	case entity.OrderStatusShipped:
		if !internal && from != entity.OrderStatusShipped && from != entity.OrderStatusCompleted {
			return StockDeductForce
		}
	case entity.OrderStatusReturned:
		if !internal && (from == entity.OrderStatusPending || from == entity.OrderStatusProcessing) {
			return StockNone
		}
		return StockRestore
	case entity.OrderStatusCancelled:
		// El stock de un pedido web se descontó al verificarlo.
		if internal && (from == entity.OrderStatusPaymentPending || from == entity.OrderStatusProcessing) {
			return StockRestore
		}
	}
	return StockNone
}

// StockDeducted indica si el stock de las líneas internas ya está descontado en ese estado.
// Los pedidos web descuentan al verificarse; el resto, al enviarse.
func StockDeducted(orderType, status string) bool {
	switch status {
	case entity.OrderStatusShipped, entity.OrderStatusCompleted:
		return true
	case entity.OrderStatusPaymentPending, entity.OrderStatusProcessing:
		return orderType == entity.OrderTypeInternal
	}
	return false
}
