package catalog

import "strings"

// NormalizeISBN quita guiones y espacios. La X final de un ISBN-10 se pasa a mayúscula.
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		}
	}
	return b.String()
}

// IsValidISBNLength 10 o 13 caracteres una vez normalizado.
func IsValidISBNLength(isbn string) bool {
	return len(isbn) == 10 || len(isbn) == 13
}

// IsSpanishISBN prefijo editorial español: 97884 en ISBN-13 u 84 en ISBN-10.
func IsSpanishISBN(isbn string) bool {
	return strings.HasPrefix(isbn, "97884") || (len(isbn) == 10 && strings.HasPrefix(isbn, "84"))
}
