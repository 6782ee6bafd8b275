package isbn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/libreria-api/internal/application/ports"
)

var _ ports.MetadataSource = (*BNE)(nil)

const bneSRUURL = "https://catalogo.bne.es/view/sru/34BNE_INST"

// BNE catálogo de la Biblioteca Nacional de España vía SRU en Dublin Core.
// No da portada ni número de páginas.
type BNE struct {
	httpSource
}

func NewBNE(timeout time.Duration) *BNE {
	return &BNE{httpSource: newHTTPSource("bne", bneSRUURL, timeout)}
}

func (b *BNE) LookupISBN(ctx context.Context, isbn string) (*ports.BookMetadata, error) {
	q := url.Values{
		"version":      {"1.2"},
		"operation":    {"searchRetrieve"},
		"recordSchema": {"dc"},
		"query":        {"alma.isbn=" + isbn},
	}
	body, err := b.get(ctx, b.baseURL+"?"+q.Encode())
	if err != nil || body == nil {
		return nil, err
	}
	m, err := parseBNERecord(body)
	if err != nil || m == nil {
		return nil, err
	}
	m.ISBN = isbn
	return m, nil
}

// parseBNERecord primer registro Dublin Core de una respuesta SRU. (nil, nil) sin registros.
func parseBNERecord(raw []byte) (*ports.BookMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("bne: XML inválido: %w", err)
	}
	if n := doc.FindElement("//numberOfRecords"); n == nil || atoi(n.Text()) == 0 {
		return nil, nil
	}
	rec := doc.FindElement("//recordData/dc")
	if rec == nil {
		if rec = doc.FindElement("//dc"); rec == nil {
			return nil, nil
		}
	}
	creator := dcText(rec, "creator")
	if creator == "" {
		creator = dcText(rec, "contributor")
	}
	m := &ports.BookMetadata{
		Title:         CleanTitle(dcText(rec, "title")),
		Publisher:     dcText(rec, "publisher"),
		PublishedDate: bneYear(dcText(rec, "date")),
		Description:   dcText(rec, "description"),
		Language:      "es",
	}
	if creator != "" {
		m.Authors = []string{creator}
	}
	return m, nil
}

func dcText(rec *etree.Element, tag string) string {
	if e := rec.FindElement(tag); e != nil {
		return strings.TrimSpace(e.Text())
	}
	return ""
}

// bneYear la BNE da fechas como "2005" o "[2005]"; se queda el año.
func bneYear(date string) string {
	d := strings.NewReplacer("[", "", "]", "").Replace(date)
	if len(d) > 4 {
		d = d[:4]
	}
	return d
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
