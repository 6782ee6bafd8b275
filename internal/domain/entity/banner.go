package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de banner de marketing.
const (
	BannerImage      = "image"
	BannerDiscount   = "discount"
	BannerLastMinute = "last_minute"
	BannerExclusive  = "exclusive"
)

// Banner banner promocional de la tienda.
type Banner struct {
	ID              string
	Title           string
	Subtitle        string
	ImageURL        string
	LinkURL         string
	Type            string
	DiscountPercent decimal.Decimal
	StartDate       *time.Time
	EndDate         *time.Time
	Active          bool
	Priority        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLive indica si el banner está activo y dentro de su ventana de fechas en now.
func (b *Banner) IsLive(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartDate != nil && now.Before(*b.StartDate) {
		return false
	}
	if b.EndDate != nil && now.After(*b.EndDate) {
		return false
	}
	return true
}

// IsValidBannerType valida el tipo de banner.
func IsValidBannerType(t string) bool {
	switch t {
	case BannerImage, BannerDiscount, BannerLastMinute, BannerExclusive:
		return true
	}
	return false
}
