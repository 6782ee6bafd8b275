package marketplace

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	iberParaRe     = regexp.MustCompile(`(?i)^Para:`)
	iberStopRe     = regexp.MustCompile(`(?i)^(?:ADUANAS|CUSTOMS|Albar[áa]n|N[°º] de pedido|Phone)`)
	iberCountryRe  = regexp.MustCompile(`(?i)Spain|España|France|Alemania|Germany|Portugal|Italy|Italia|United Kingdom|Reino Unido`)
	iberCPLineRe   = regexp.MustCompile(`^\d{4,5}\b`)
	iberCPCityRe   = regexp.MustCompile(`^(\d{4,5})\s+(.+)$`)
	iberCustomsRe  = regexp.MustCompile(`(?i)^(?:ADUANAS|CUSTOMS)`)
	iberPhoneRe    = regexp.MustCompile(`(?i)^Phone:`)
	iberPhoneValRe = regexp.MustCompile(`(?i)Phone:\s*([^\n]+)`)
	iberHeaderRe   = regexp.MustCompile(`(?i)Art[íi]culo\s+Autor\s+T[íi]tulo`)
	iberItemRe     = regexp.MustCompile(`^(\d+)\s+(.+?)\s+(\d+)$`)
)

// ParseIberLibro interpreta el albarán de IberLibro copiado desde el panel de vendedor.
//
// El bloque "Para:" contiene nombre, calle, "CP Ciudad", provincia y país.
// Las observaciones van desde ADUANAS/CUSTOMS hasta la línea "Phone:".
// Los artículos aparecen bajo la cabecera "Artículo Autor Título" como
// "cantidad texto referencia".
func ParseIberLibro(text string) *Draft {
	lines := strings.Split(normalizeNewlines(text), "\n")
	d := &Draft{Source: SourceIberLibro, Country: DefaultCountry}

	paraIdx := indexOf(lines, iberParaRe)
	blockEnd := -1
	var block []string
	if paraIdx != -1 {
		for i := paraIdx + 1; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}
			if iberStopRe.MatchString(line) {
				blockEnd = i
				break
			}
			block = append(block, line)
		}
	}
	parseIberAddress(d, block)

	customsIdx := indexOf(lines, iberCustomsRe)
	phoneIdx := indexOf(lines, iberPhoneRe)
	obsStart := customsIdx
	if obsStart == -1 {
		obsStart = blockEnd
	}
	if obsStart != -1 && phoneIdx > obsStart {
		var obs []string
		for _, l := range lines[obsStart:phoneIdx] {
			if l = strings.TrimSpace(l); l != "" {
				obs = append(obs, l)
			}
		}
		d.Notes = strings.Join(obs, "\n")
	}
	if phoneIdx != -1 {
		if m := iberPhoneValRe.FindStringSubmatch(lines[phoneIdx]); m != nil {
			d.Phone = strings.TrimSpace(m[1])
		}
	}

	if hdr := indexOf(lines, iberHeaderRe); hdr != -1 {
		for _, raw := range lines[hdr+1:] {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "Descripción:") {
				break
			}
			m := iberItemRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			qty, _ := strconv.Atoi(m[1])
			if qty < 1 {
				qty = 1
			}
			d.Lines = append(d.Lines, DraftLine{
				Quantity:  qty,
				Reference: m[3],
				Name:      m[2] + " (Ref: " + m[3] + ")",
				Price:     decimal.Zero,
			})
		}
	}
	return d
}

func parseIberAddress(d *Draft, block []string) {
	if len(block) == 0 {
		return
	}
	d.ClientName = block[0]
	rest := block[1:]
	if len(rest) == 0 {
		return
	}
	if last := rest[len(rest)-1]; iberCountryRe.MatchString(last) {
		d.Country = last
		rest = rest[:len(rest)-1]
	}

	cpIdx := -1
	for i, l := range rest {
		if iberCPLineRe.MatchString(l) {
			cpIdx = i
			break
		}
	}
	if cpIdx == -1 {
		d.Street = strings.Join(rest, ", ")
		return
	}
	d.Street = strings.Join(rest[:cpIdx], ", ")
	if m := iberCPCityRe.FindStringSubmatch(rest[cpIdx]); m != nil {
		d.PostalCode = m[1]
		d.City = strings.TrimSpace(m[2])
	} else {
		d.PostalCode = rest[cpIdx]
	}
	if after := rest[cpIdx+1:]; len(after) > 0 {
		d.Province = strings.Join(after, ", ")
	} else {
		d.Province = d.City
	}
}

// indexOf primera línea (recortada) que cumple el patrón, o -1.
func indexOf(lines []string, re *regexp.Regexp) int {
	for i, l := range lines {
		if re.MatchString(strings.TrimSpace(l)) {
			return i
		}
	}
	return -1
}
