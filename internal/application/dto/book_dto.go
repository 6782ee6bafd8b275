package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookRequest entrada para dar de alta un libro. Si Code está vacío se
// genera el siguiente código de la ubicación.
type CreateBookRequest struct {
	Code        string          `json:"code" validate:"omitempty,max=20"`
	Title       string          `json:"title" validate:"required,min=1,max=500"`
	Author      string          `json:"author" validate:"omitempty,max=300"`
	Publisher   string          `json:"publisher" validate:"omitempty,max=200"`
	ISBN        string          `json:"isbn" validate:"omitempty,max=20"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  *int64          `json:"category_id"`
	Location    string          `json:"location" validate:"omitempty,max=100"`
	Language    string          `json:"language" validate:"omitempty,max=50"`
	Condition   string          `json:"condition" validate:"omitempty,max=50"`
	Year        int             `json:"year" validate:"gte=0,lte=2100"`
	Pages       int             `json:"pages" validate:"gte=0"`
	Description string          `json:"description"`
	CoverURL    string          `json:"cover_url" validate:"omitempty,url"`
	Notes       string          `json:"notes"`
	Featured    bool            `json:"featured"`
}

// UpdateBookRequest actualización parcial de un libro.
type UpdateBookRequest struct {
	Code        *string          `json:"code" validate:"omitempty,max=20"`
	Title       *string          `json:"title" validate:"omitempty,min=1,max=500"`
	Author      *string          `json:"author" validate:"omitempty,max=300"`
	Publisher   *string          `json:"publisher" validate:"omitempty,max=200"`
	ISBN        *string          `json:"isbn" validate:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *int64           `json:"category_id"`
	Location    *string          `json:"location" validate:"omitempty,max=100"`
	Language    *string          `json:"language"`
	Condition   *string          `json:"condition"`
	Year        *int             `json:"year" validate:"omitempty,gte=0,lte=2100"`
	Pages       *int             `json:"pages" validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	CoverURL    *string          `json:"cover_url" validate:"omitempty,url"`
	Notes       *string          `json:"notes"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
}

// AdjustStockRequest suma (o resta) unidades al stock.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// BookResponse salida de un libro.
type BookResponse struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Publisher       string          `json:"publisher"`
	ISBN            string          `json:"isbn"`
	Price           decimal.Decimal `json:"price"`
	PriceWithoutTax decimal.Decimal `json:"price_without_tax"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Stock           int             `json:"stock"`
	CategoryID      *int64          `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	Location        string          `json:"location"`
	Language        string          `json:"language"`
	Condition       string          `json:"condition"`
	Year            int             `json:"year,omitempty"`
	Pages           int             `json:"pages,omitempty"`
	Description     string          `json:"description"`
	CoverURL        string          `json:"cover_url"`
	Notes           string          `json:"notes,omitempty"`
	Featured        bool            `json:"featured"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BookListResponse lista paginada de libros.
type BookListResponse struct {
	Items []BookResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// BookFilterRequest filtros de query del listado.
type BookFilterRequest struct {
	Query      string `query:"q"`
	CategoryID int64  `query:"category_id"`
	Location   string `query:"location"`
	Featured   *bool  `query:"featured"`
	InStock    bool   `query:"in_stock"`
}

// NextCodeResponse siguiente código libre de una ubicación.
type NextCodeResponse struct {
	Location string `json:"location"`
	Code     string `json:"code"`
}

// RepairEncodingResponse resultado del proceso de reparación de caracteres.
type RepairEncodingResponse struct {
	Scanned int `json:"scanned"`
	Fixed   int `json:"fixed"`
	Errors  int `json:"errors"`
}

// ISBNSearchRequest búsqueda de un libro por título y autor.
type ISBNSearchRequest struct {
	Title     string `query:"title" validate:"required,min=1,max=500"`
	Author    string `query:"author" validate:"max=300"`
	Publisher string `query:"publisher" validate:"max=200"`
	Year      int    `query:"year" validate:"gte=0,lte=2100"`
}

// BookMetadataResponse datos de un libro obtenidos de catálogos externos,
// listos para rellenar el alta.
type BookMetadataResponse struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	Year          int      `json:"year,omitempty"`
	Pages         int      `json:"pages,omitempty"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	CoverURL      string   `json:"cover_url"`
	Language      string   `json:"language"`
}
