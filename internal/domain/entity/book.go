package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condiciones de un libro (estado físico).
const (
	ConditionNew      = "nuevo"
	ConditionLikeNew  = "como nuevo"
	ConditionGood     = "bueno"
	ConditionRead     = "leido"
	ConditionUsed     = "usado"
	ConditionFair     = "aceptable"
	ConditionRegular  = "regular"
	ConditionPoor     = "pobre"
	ConditionBad      = "malo"
	DefaultLanguage   = "Español"
	DefaultBookTitle  = "Untitled"
	DefaultBookAuthor = "Unknown"
)

// Book representa un libro del catálogo. Code es el código interno con sufijo de ubicación.
type Book struct {
	ID           int64
	Code         string
	Title        string
	Author       string
	Publisher    string
	ISBN         string
	Price        decimal.Decimal // IVA incluido
	Stock        int
	CategoryID   *int64
	CategoryName string // solo lectura (join)
	Location     string
	Language     string
	Condition    string
	Year         int
	Pages        int
	Description  string
	CoverURL     string
	Notes        string
	Featured     bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InStock indica si hay unidades disponibles.
func (b *Book) InStock() bool { return b.Stock > 0 }

// SKU identificador para marketplaces: el código interno o, si falta, el ID.
func (b *Book) SKU() string {
	if b.Code != "" {
		return b.Code
	}
	return formatInt(b.ID)
}

// BookFilter filtros de listado de libros.
type BookFilter struct {
	Query      string
	CategoryID int64
	Location   string
	Featured   *bool
	InStock    bool
	MinPrice   decimal.Decimal
	OnlyActive bool
	Limit      int
	Offset     int
}
