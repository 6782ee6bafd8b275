package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation referencia a una fila inexistente (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// filters acumula condiciones WHERE con placeholders $n numerados en orden.
type filters struct {
	conds []string
	args  []any
}

// add agrega una condición; expr usa %[1]d para el número del placeholder (puede repetirse).
func (f *filters) add(expr string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(expr, len(f.args)))
}

// addRaw agrega una condición sin argumentos.
func (f *filters) addRaw(expr string) {
	f.conds = append(f.conds, expr)
}

func (f *filters) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// page devuelve LIMIT/OFFSET con sus placeholders; limit 0 = sin límite.
func (f *filters) page(limit, offset int) (string, []any) {
	n := len(f.args)
	args := append(append([]any{}, f.args...), limit, offset)
	return fmt.Sprintf(" LIMIT NULLIF($%d, 0) OFFSET $%d", n+1, n+2), args
}

// containsPattern patrón LIKE que contiene s, escapando comodines.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(s) + "%"
}

// nullIfEmpty convierte "" en NULL para columnas UUID/TEXT opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
