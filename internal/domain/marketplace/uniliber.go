package marketplace

import (
	"regexp"
	"strings"
)

var (
	uniPriceRe     = regexp.MustCompile(`(?i)Precio\s*total(?:\s*[:.\-])?(?:\s*\n\s*|\s+)([\d.,]+)`)
	uniCPDigitsRe  = regexp.MustCompile(`\d{4,5}`)
	uniRefLineRe   = regexp.MustCompile(`(?i)^(?:Referencia|Ref)`)
	uniBindingRe   = regexp.MustCompile(`(?i)Cartoné|Tapa|Rústica`)
	uniLeadDigitRe = regexp.MustCompile(`^\d+`)

	uniRefRe      = labelRe(`(?:Referencia|Ref\.?|Nº Pedido|Pedido)`)
	uniNameRe     = labelRe(`(?:Nombre|Cliente)`)
	uniStreetRe   = labelRe(`Direcci[óo]n`)
	uniCityRe     = labelRe(`(?:Poblaci[óo]n|Ciudad|Localidad)`)
	uniProvinceRe = labelRe(`Provincia`)
	uniCountryRe  = labelRe(`Pa[íi]s`)
	uniCPRe       = labelRe(`(?:C\.?\s*Postal|C\.?P\.?|Código Postal|CP)`)
	uniEmailRe    = labelRe(`Email`)
	uniPhoneRe    = labelRe(`(?:Teléfono|Tlf|Tel)`)
	uniMobileRe   = labelRe(`(?:Móvil|Movil)`)
)

// labelRe patrón "Etiqueta: valor" admitiendo ':', '.' o '-' como separador.
func labelRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `\s*[:.\-]\s*([^\n]+)`)
}

func uniliberField(text string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseUniliber interpreta el correo de venta de Uniliber (campos etiquetados).
// Devuelve una única línea con la referencia del libro; si la referencia no
// existe en el catálogo se usará el nombre deducido y el precio total.
func ParseUniliber(text string) *Draft {
	clean := normalizeNewlines(text)
	d := &Draft{Source: SourceUniliber}

	d.Reference = uniliberField(clean, uniRefRe)
	d.ClientName = uniliberField(clean, uniNameRe)
	d.Street = uniliberField(clean, uniStreetRe)
	d.City = uniliberField(clean, uniCityRe)
	d.Province = uniliberField(clean, uniProvinceRe)
	d.Country = uniliberField(clean, uniCountryRe)
	if cp := uniliberField(clean, uniCPRe); cp != "" {
		d.PostalCode = uniCPDigitsRe.FindString(cp)
	}
	d.Email = uniliberField(clean, uniEmailRe)
	d.Phone = uniliberField(clean, uniPhoneRe)
	d.Mobile = uniliberField(clean, uniMobileRe)
	if m := uniPriceRe.FindStringSubmatch(clean); m != nil {
		d.Total = parseAmount(m[1])
	}

	title, author := uniliberTitleAuthor(clean)
	name := "Producto Uniliber (Ref: " + d.Reference + ")"
	if title != "" {
		name = title
		if author != "" {
			name += " - " + author
		}
		name += " (Ref: " + d.Reference + ")"
	}
	d.Lines = []DraftLine{{
		Quantity:  1,
		Reference: d.Reference,
		Name:      name,
		Price:     d.Total,
	}}
	return d
}

// uniliberTitleAuthor heurística: la línea tras "Referencia" suele ser el título
// y la siguiente el autor, salvo que sea una encuadernación.
func uniliberTitleAuthor(text string) (title, author string) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	refIdx := -1
	for i, l := range lines {
		if uniRefLineRe.MatchString(l) {
			refIdx = i
			break
		}
	}
	if refIdx != -1 && refIdx+1 < len(lines) {
		if next := lines[refIdx+1]; !strings.Contains(next, ":") {
			title = next
			if refIdx+2 < len(lines) {
				after := lines[refIdx+2]
				if !strings.Contains(after, ":") && !uniBindingRe.MatchString(after) {
					author = after
				}
			}
		}
	}
	if title == "" {
		for _, l := range lines {
			if strings.Contains(l, ":") || uniLeadDigitRe.MatchString(l) || strings.Contains(l, "€") {
				continue
			}
			title = l
			break
		}
	}
	return title, author
}
