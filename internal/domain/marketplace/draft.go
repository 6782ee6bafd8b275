// Package marketplace convierte los pedidos pegados desde marketplaces
// (IberLibro, Uniliber, AbeBooks o texto libre) en borradores de pedido.
// Los parsers son funciones puras: no consultan la base de datos.
package marketplace

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Source origen del texto importado.
type Source string

const (
	SourceIberLibro Source = "iberlibro"
	SourceUniliber  Source = "uniliber"
	SourceAbeBooks  Source = "abebooks"
	SourceGeneric   Source = "generico"
)

// Label nombre comercial del origen, usado en notas de cliente.
func (s Source) Label() string {
	switch s {
	case SourceIberLibro:
		return "IberLibro"
	case SourceUniliber:
		return "Uniliber"
	case SourceAbeBooks:
		return "AbeBooks"
	default:
		return "texto libre"
	}
}

// IsValidSource indica si el origen es conocido.
func IsValidSource(s string) bool {
	switch Source(s) {
	case SourceIberLibro, SourceUniliber, SourceAbeBooks, SourceGeneric:
		return true
	}
	return false
}

// DefaultCountry país asumido cuando el texto no lo indica.
const DefaultCountry = "España"

// Draft pedido extraído de un texto de marketplace, pendiente de resolver contra el catálogo.
type Draft struct {
	Source     Source
	Reference  string // referencia del pedido en el marketplace
	ClientName string
	Email      string
	Phone      string
	Mobile     string
	Street     string
	PostalCode string
	City       string
	Province   string
	Country    string
	// RawAddress dirección sin estructurar (formato genérico).
	RawAddress    string
	Notes         string
	PaymentMethod string
	Carrier       string
	Tracking      string
	Total         decimal.Decimal
	Lines         []DraftLine
}

// DraftLine línea del borrador. Reference es el código del libro en nuestro
// catálogo cuando el marketplace lo proporciona; Name es el nombre externo
// que se usará si la referencia no existe.
type DraftLine struct {
	Quantity  int
	Reference string
	Name      string
	Price     decimal.Decimal
}

// ContactPhone prioriza el móvil sobre el fijo.
func (d *Draft) ContactPhone() string {
	if d.Mobile != "" {
		return d.Mobile
	}
	return d.Phone
}

// FullAddress dirección de envío completa: calle, cp, ciudad, provincia y país,
// sin partes vacías ni repetidas.
func (d *Draft) FullAddress() string {
	parts := []string{d.Street, d.PostalCode, d.City, d.Province, d.Country}
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 || (d.Street == "" && d.RawAddress != "") {
		return d.RawAddress
	}
	return strings.Join(out, ", ")
}

// SplitName separa nombre y apellidos por el primer espacio.
func SplitName(full string) (name, surname string) {
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// parseAmount interpreta importes con coma o punto decimal ("33,00", "12.5").
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
