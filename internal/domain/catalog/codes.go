// Package catalog contiene las reglas puras del catálogo: códigos de libro por
// ubicación, mapeo de condición para marketplaces y precios sin IVA.
package catalog

import (
	"regexp"
	"strings"

	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// CodePadding longitud mínima de la parte numérica del código.
const CodePadding = 6

// Ubicaciones conocidas.
const (
	LocationWarehouse = "Almacén"
	LocationGaleon    = "Galeón"
	LocationHortaleza = "Hortaleza"
	LocationReina     = "Reina"
	LocationAbeBooks  = "Abebooks"
	LocationUniliber  = "UniLiber"
	LocationGeneral   = "General"
)

// Sufijos ordenados de más largo a más corto para que "UL" no se confunda con otro sufijo.
var knownSuffixes = []string{"Ab", "UL", "AG", "G", "H", "R", "N"}

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	onlyDigitsRe = regexp.MustCompile(`^\d+$`)
)

// SuffixForLocation devuelve el sufijo de código de una ubicación ("" para almacén o desconocida).
func SuffixForLocation(location string) string {
	switch textnorm.Fold(location) {
	case "galeon":
		return "G"
	case "hortaleza":
		return "H"
	case "reina":
		return "R"
	case "abebooks":
		return "Ab"
	case "uniliber":
		return "UL"
	case "general":
		return "AG"
	default:
		return ""
	}
}

// BaseNumber extrae la parte numérica de un código, sin sufijo de ubicación.
func BaseNumber(code string) string {
	c := strings.TrimSpace(code)
	for _, s := range knownSuffixes {
		if len(c) > len(s) && strings.EqualFold(c[len(c)-len(s):], s) {
			c = c[:len(c)-len(s)]
			break
		}
	}
	return digitsRe.FindString(c)
}

// FormatCode genera el código con padding y el sufijo de la ubicación.
func FormatCode(base string, location string) string {
	n := digitsRe.FindString(base)
	if n == "" {
		n = base
	}
	if len(n) < CodePadding {
		n = strings.Repeat("0", CodePadding-len(n)) + n
	}
	return n + SuffixForLocation(location)
}

// ValidateCodeForLocation comprueba que el código tenga el sufijo esperado por la ubicación.
func ValidateCodeForLocation(code, location string) bool {
	suffix := SuffixForLocation(location)
	if suffix == "" {
		return onlyDigitsRe.MatchString(code)
	}
	if !strings.HasSuffix(code, suffix) {
		return false
	}
	return onlyDigitsRe.MatchString(strings.TrimSuffix(code, suffix))
}

// NormalizeCode mantiene el código si ya es válido para la ubicación; si no, lo rehace con el sufijo correcto.
func NormalizeCode(code, location string) string {
	if code == "" {
		return ""
	}
	if ValidateCodeForLocation(code, location) {
		return code
	}
	return FormatCode(BaseNumber(code), location)
}

// LocationFromCode deduce la ubicación a partir del sufijo. Devuelve "" si el formato es desconocido.
func LocationFromCode(code string) string {
	c := strings.TrimSpace(code)
	switch {
	case c == "":
		return ""
	case strings.HasSuffix(c, "Ab"):
		return LocationAbeBooks
	case strings.HasSuffix(c, "UL"):
		return LocationUniliber
	case strings.HasSuffix(c, "AG"):
		return LocationGeneral
	case strings.HasSuffix(c, "G"):
		return LocationGaleon
	case strings.HasSuffix(c, "H"):
		return LocationHortaleza
	case strings.HasSuffix(c, "R"):
		return LocationReina
	case onlyDigitsRe.MatchString(c):
		return LocationWarehouse
	}
	return ""
}
