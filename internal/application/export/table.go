package export

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const bom = "\uFEFF"

// table acumula filas de un fichero de texto delimitado. Con quoteAll todas
// las celdas van entre comillas con las comillas internas duplicadas.
type table struct {
	buf      bytes.Buffer
	sep      string
	eol      string
	quoteAll bool
}

// newCSV CSV para hojas de cálculo: BOM, coma, todo entrecomillado y CRLF.
func newCSV(headers ...string) *table {
	t := &table{sep: ",", eol: "\r\n", quoteAll: true}
	t.buf.WriteString(bom)
	if len(headers) > 0 {
		t.row(headers...)
	}
	return t
}

func (t *table) row(cells ...string) {
	for i, c := range cells {
		if i > 0 {
			t.buf.WriteString(t.sep)
		}
		if t.quoteAll {
			c = quote(c)
		}
		t.buf.WriteString(c)
	}
	t.buf.WriteString(t.eol)
}

// raw escribe las celdas tal cual; el llamador decide qué va entrecomillado.
func (t *table) raw(cells ...string) {
	t.buf.WriteString(strings.Join(cells, t.sep))
	t.buf.WriteString(t.eol)
}

func (t *table) bytes() []byte { return t.buf.Bytes() }

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

// optInt cadena vacía para cero (año y páginas desconocidos).
func optInt(n int) string {
	if n <= 0 {
		return ""
	}
	return itoa(int64(n))
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
