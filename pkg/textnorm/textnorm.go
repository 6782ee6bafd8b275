// Package textnorm agrupa utilidades de texto para el catálogo: reparación de
// caracteres mal codificados, plegado para búsquedas y formato de nombres.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Secuencias típicas de UTF-8 leído como Windows-1252.
var mojibakeMarkers = []string{"Ã", "Â", "â€", "â‚"}

// Tabla de respaldo para cadenas parcialmente dañadas (mezcla de texto correcto y roto).
var mojibakeReplacer = strings.NewReplacer(
	"Ã¡", "á", "Ã©", "é", "Ã­", "í", "Ã³", "ó", "Ãº", "ú",
	"Ã\u0081", "Á", "Ã‰", "É", "Ã\u008d", "Í", "Ã“", "Ó", "Ãš", "Ú",
	"Ã±", "ñ", "Ã‘", "Ñ",
	"Ã¼", "ü", "Ãœ", "Ü",
	"Ã§", "ç", "Ã‡", "Ç",
	"Ã\u00a0", "à", "Ã¨", "è", "Ã²", "ò",
	"Âª", "ª", "Âº", "º",
	"Â¿", "¿", "Â¡", "¡",
	"â‚¬", "€", "â€“", "–", "â€”", "—", "â€¦", "…",
	"â€œ", "“", "â€\u009d", "”", "â€™", "’", "â€˜", "‘",
	"Â·", "·", "Â\u00a0", " ",
)

// RepairMojibake repara texto UTF-8 que fue decodificado como Windows-1252
// (ej. "CanciÃ³n" -> "Canción"). Devuelve el texto y si hubo cambios.
func RepairMojibake(s string) (string, bool) {
	if !looksBroken(s) {
		return s, false
	}
	// Caso completo: toda la cadena se re-codifica a los bytes originales.
	if b, err := charmap.Windows1252.NewEncoder().String(s); err == nil && b != s && utf8.ValidString(b) {
		return b, true
	}
	fixed := mojibakeReplacer.Replace(s)
	return fixed, fixed != s
}

func looksBroken(s string) bool {
	for _, m := range mojibakeMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Fold pasa a minúsculas, elimina diacríticos y colapsa espacios.
// Se usa para comparar nombres y buscar sin depender de tildes.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return CollapseSpaces(strings.ToLower(out))
}

// CollapseSpaces sustituye cualquier secuencia de espacios (incluidos saltos de línea) por uno solo.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var lowerWords = map[string]bool{
	"y": true, "e": true, "o": true, "u": true, "de": true, "del": true,
	"la": true, "las": true, "el": true, "los": true, "en": true, "a": true,
}

// TitleCase aplica mayúscula inicial a cada palabra salvo artículos y conjunciones
// (ej. "thriller y misterio" -> "Thriller y Misterio").
func TitleCase(s string) string {
	words := strings.Fields(s)
	caser := cases.Title(language.Spanish)
	for i, w := range words {
		lw := strings.ToLower(w)
		if i > 0 && lowerWords[lw] {
			words[i] = lw
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
