package postgres

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilters(t *testing.T) {
	var f filters
	assert.Empty(t, f.where())

	f.addRaw("l.activo")
	f.add("(l.titulo ILIKE $%[1]d OR l.autor ILIKE $%[1]d)", "%x%")
	f.add("l.stock > $%d", 0)
	assert.Equal(t, " WHERE l.activo AND (l.titulo ILIKE $1 OR l.autor ILIKE $1) AND l.stock > $2", f.where())

	clause, args := f.page(20, 40)
	assert.Equal(t, " LIMIT NULLIF($3, 0) OFFSET $4", clause)
	assert.Equal(t, []any{"%x%", 0, 20, 40}, args)
	assert.Len(t, f.args, 2)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%100\% algodón%`, containsPattern("100% algodón"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}

func TestOrderSearchText_ColumnasNulables(t *testing.T) {
	// Todas las columnas de clientes y usuarios van protegidas frente a NULL.
	cols := regexp.MustCompile(`\b[cu]\.[a-z_]+`).FindAllString(orderSearchText, -1)
	assert.NotEmpty(t, cols)
	for _, col := range cols {
		assert.Contains(t, orderSearchText, "COALESCE("+col+", '')", col)
	}
	for _, want := range []string{"u.email", "u.nombre", "c.email"} {
		assert.Contains(t, orderSearchText, want)
	}
	assert.False(t, strings.Contains(orderSearchText, "c.nombre ||"), "sin concatenación directa de columnas nulables")
}
