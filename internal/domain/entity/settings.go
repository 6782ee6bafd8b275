package entity

import (
	"encoding/json"
	"time"
)

// Categorías de configuración. Cada una se guarda como un blob JSON.
const (
	SettingsCompany      = "company"
	SettingsBilling      = "billing"
	SettingsShipping     = "shipping"
	SettingsSystem       = "system"
	SettingsSecurity     = "security"
	SettingsIntegrations = "integrations"
)

// SettingsCategories orden estable de categorías.
var SettingsCategories = []string{
	SettingsCompany, SettingsBilling, SettingsShipping, SettingsSystem, SettingsSecurity, SettingsIntegrations,
}

// Setting fila de configuración persistida.
type Setting struct {
	Category  string
	Value     json.RawMessage
	UpdatedAt time.Time
	UpdatedBy string
}

type CompanySettings struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	TaxID   string `json:"taxId"`
	Logo    string `json:"logo"`
}

type BillingSettings struct {
	Currency       string  `json:"currency" validate:"oneof=EUR USD GBP"`
	CurrencySymbol string  `json:"currencySymbol"`
	TaxRate        float64 `json:"taxRate" validate:"gte=0,lte=100"` // porcentaje
	InvoicePrefix  string  `json:"invoicePrefix"`
	InvoiceTerms   string  `json:"invoiceTerms"`
	InvoiceFooter  string  `json:"invoiceFooter"`
}

type ZoneRate struct {
	Cost          float64 `json:"cost"`
	FreeThreshold float64 `json:"freeThreshold"`
	Days          int     `json:"days"`
}

type DeliveryDays struct {
	Standard      int `json:"standard"`
	Express       int `json:"express"`
	International int `json:"international"`
}

type ShippingSettings struct {
	FreeShippingThresholdStandard float64             `json:"freeShippingThresholdStandard" validate:"gte=0"`
	FreeShippingThresholdExpress  float64             `json:"freeShippingThresholdExpress" validate:"gte=0"`
	StandardShippingCost          float64             `json:"standardShippingCost" validate:"gte=0"`
	ExpressShippingCost           float64             `json:"expressShippingCost" validate:"gte=0"`
	ShippingZones                 []string            `json:"shippingZones"`
	EstimatedDeliveryDays         DeliveryDays        `json:"estimatedDeliveryDays"`
	InternationalRates            map[string]ZoneRate `json:"internationalRates"`
}

type SystemSettings struct {
	ItemsPerPageCatalog int    `json:"itemsPerPageCatalog" validate:"gte=1,lte=200"`
	ItemsPerPageAdmin   int    `json:"itemsPerPageAdmin" validate:"gte=1,lte=200"`
	MaintenanceMode     bool   `json:"maintenanceMode"`
	AllowRegistration   bool   `json:"allowRegistration"`
	DefaultLanguage     string `json:"defaultLanguage"`
	EnableWishlist      bool   `json:"enableWishlist"`
	EnableReviews       bool   `json:"enableReviews"`
}

type SecuritySettings struct {
	SessionTimeout           int  `json:"sessionTimeout" validate:"gte=5"`
	MaxLoginAttempts         int  `json:"maxLoginAttempts" validate:"gte=1"`
	PasswordMinLength        int  `json:"passwordMinLength" validate:"gte=6,lte=64"`
	RequireEmailVerification bool `json:"requireEmailVerification"`
	Enable2FA                bool `json:"enable2FA"`
}

type AbeBooksAPISettings struct {
	Enabled bool `json:"enabled"`
	Orders  struct {
		ShowTab  bool `json:"showTab"`
		Download bool `json:"download"`
		Manage   bool `json:"manage"`
	} `json:"orders"`
	Inventory struct {
		Upload        bool `json:"upload"`
		SyncStock     bool `json:"syncStock"`
		SyncDeletions bool `json:"syncDeletions"`
	} `json:"inventory"`
}

type AbeBooksFeedSettings struct {
	Enabled  bool    `json:"enabled"`
	AutoSync bool    `json:"autoSync"`
	MinPrice float64 `json:"minPrice" validate:"gte=0"`
	Schedule string  `json:"schedule"`
}

// DefaultAbeBooksMinPrice precio mínimo de publicación en AbeBooks sin otro configurado.
const DefaultAbeBooksMinPrice = 12.0

// EffectiveMinPrice precio mínimo que aplican el feed y la sincronización: el guardado
// en ajustes si es positivo, si no fallback (ABEBOOKS_MIN_PRICE) y por último el valor por defecto.
func (s AbeBooksFeedSettings) EffectiveMinPrice(fallback float64) float64 {
	switch {
	case s.MinPrice > 0:
		return s.MinPrice
	case fallback > 0:
		return fallback
	}
	return DefaultAbeBooksMinPrice
}

type AbeBooksSettings struct {
	Enabled      bool                 `json:"enabled"`
	LastFullSync *time.Time           `json:"lastFullSync"`
	API          AbeBooksAPISettings  `json:"api"`
	FTPS         AbeBooksFeedSettings `json:"ftps"`
}

type IntegrationsSettings struct {
	AbeBooks AbeBooksSettings `json:"abeBooks"`
	Uniliber struct {
		Enabled bool `json:"enabled"`
	} `json:"uniliber"`
}

// AllSettings configuración completa.
type AllSettings struct {
	Company      CompanySettings      `json:"company"`
	Billing      BillingSettings      `json:"billing"`
	Shipping     ShippingSettings     `json:"shipping"`
	System       SystemSettings       `json:"system"`
	Security     SecuritySettings     `json:"security"`
	Integrations IntegrationsSettings `json:"integrations"`
}

// DefaultSettings valores usados cuando una categoría no está guardada.
func DefaultSettings() AllSettings {
	s := AllSettings{
		Company: CompanySettings{Name: "Librería"},
		Billing: BillingSettings{
			Currency: "EUR", CurrencySymbol: "€", TaxRate: 21, InvoicePrefix: "F",
			InvoiceTerms: "Pago a 30 días", InvoiceFooter: "Gracias por su compra",
		},
		Shipping: ShippingSettings{
			FreeShippingThresholdStandard: 50,
			FreeShippingThresholdExpress:  100,
			StandardShippingCost:          4.95,
			ExpressShippingCost:           9.95,
			ShippingZones:                 []string{"España peninsular", "Baleares", "Canarias"},
			EstimatedDeliveryDays:         DeliveryDays{Standard: 5, Express: 2, International: 10},
			InternationalRates: map[string]ZoneRate{
				"europe":  {Cost: 15, FreeThreshold: 150, Days: 7},
				"america": {Cost: 25, FreeThreshold: 250, Days: 12},
				"asia":    {Cost: 30, FreeThreshold: 300, Days: 15},
				"other":   {Cost: 35, FreeThreshold: 350, Days: 20},
			},
		},
		System: SystemSettings{
			ItemsPerPageCatalog: 24, ItemsPerPageAdmin: 20, AllowRegistration: true,
			DefaultLanguage: "es", EnableWishlist: true, EnableReviews: true,
		},
		Security: SecuritySettings{SessionTimeout: 60, MaxLoginAttempts: 5, PasswordMinLength: 8},
	}
	s.Integrations.AbeBooks.FTPS = AbeBooksFeedSettings{MinPrice: DefaultAbeBooksMinPrice, Schedule: "0 */6 * * *"}
	return s
}
