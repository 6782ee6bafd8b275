package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SettingResponse una categoría de configuración.
type SettingResponse struct {
	Category  string          `json:"category"`
	Value     json.RawMessage `json:"value"`
	IsDefault bool            `json:"is_default"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
	UpdatedBy string          `json:"updated_by,omitempty"`
}

// BannerRequest alta o edición de banner.
type BannerRequest struct {
	Title           string          `json:"title" validate:"required,min=1,max=200"`
	Subtitle        string          `json:"subtitle" validate:"max=300"`
	ImageURL        string          `json:"image_url" validate:"omitempty,url"`
	LinkURL         string          `json:"link_url" validate:"omitempty,max=500"`
	Type            string          `json:"type" validate:"omitempty,oneof=image discount last_minute exclusive"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartDate       *time.Time      `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	Active          *bool           `json:"active"`
	Priority        int             `json:"priority" validate:"gte=0"`
}

// BannerResponse salida de un banner.
type BannerResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle"`
	ImageURL        string          `json:"image_url"`
	LinkURL         string          `json:"link_url"`
	Type            string          `json:"type"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Active          bool            `json:"active"`
	Priority        int             `json:"priority"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DiscountRequest alta o edición de un descuento. CategoryID es obligatorio con scope CATEGORY.
type DiscountRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Percent    decimal.Decimal `json:"discount_percent"`
	Scope      string          `json:"scope" validate:"omitempty,oneof=GLOBAL CATEGORY"`
	CategoryID *int64          `json:"target_category_id"`
	Active     *bool           `json:"active"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
}

// DiscountResponse salida de un descuento.
type DiscountResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Percent      decimal.Decimal `json:"discount_percent"`
	Scope        string          `json:"scope"`
	CategoryID   *int64          `json:"target_category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Active       bool            `json:"active"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToggleDiscountRequest activa o desactiva un descuento.
type ToggleDiscountRequest struct {
	Active bool `json:"active"`
}
