package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ámbitos de un descuento.
const (
	DiscountScopeGlobal   = "GLOBAL"
	DiscountScopeCategory = "CATEGORY"
)

// DiscountRule descuento porcentual sobre todo el catálogo o sobre una categoría.
type DiscountRule struct {
	ID           int64
	Name         string
	Percent      decimal.Decimal
	Scope        string
	CategoryID   *int64
	CategoryName string // solo lectura
	Active       bool
	StartDate    *time.Time
	EndDate      *time.Time
	CreatedAt    time.Time
}

// IsLive activo y dentro de su ventana de fechas en now.
func (d *DiscountRule) IsLive(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// AppliesTo indica si la regla alcanza a un libro de la categoría dada (nil = sin categoría).
func (d *DiscountRule) AppliesTo(categoryID *int64) bool {
	switch d.Scope {
	case DiscountScopeGlobal:
		return true
	case DiscountScopeCategory:
		return categoryID != nil && d.CategoryID != nil && *categoryID == *d.CategoryID
	}
	return false
}

// IsValidDiscountScope valida el ámbito.
func IsValidDiscountScope(s string) bool {
	return s == DiscountScopeGlobal || s == DiscountScopeCategory
}

// BestDiscount mayor porcentaje entre las reglas vigentes que alcanzan a la categoría.
// Los descuentos no se acumulan. Cero si ninguna aplica.
func BestDiscount(rules []*DiscountRule, categoryID *int64, now time.Time) decimal.Decimal {
	best := decimal.Zero
	for _, r := range rules {
		if r.IsLive(now) && r.AppliesTo(categoryID) && r.Percent.GreaterThan(best) {
			best = r.Percent
		}
	}
	return best
}
