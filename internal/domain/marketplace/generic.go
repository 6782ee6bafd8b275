package marketplace

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	genericLineRe    = regexp.MustCompile(`(?i)^(\d+)[\s\-x]+(.+?)(?:\s+[-–]\s+)?(?:(\d+[.,]\d{1,2})\s*€?)?$`)
	genericProductRe = regexp.MustCompile(`^\d+[\s\-x]+`)
	genericPrefixRe  = regexp.MustCompile(`(?i)^(producto:|libro:|título:|titulo:)`)
)

// ParseGeneric interpreta texto libre con líneas "Etiqueta: valor" y
// productos en formato "2 x Título - 12,50€". Todas las líneas son externas.
func ParseGeneric(text string) *Draft {
	d := &Draft{Source: SourceGeneric}
	var products []string

	for _, raw := range strings.Split(normalizeNewlines(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case containsAny(lower, "cliente:", "nombre:"):
			d.ClientName = afterColon(line)
		case containsAny(lower, "dirección:", "direccion:"):
			d.RawAddress = afterColon(line)
		case containsAny(lower, "teléfono:", "telefono:", "tel:"):
			d.Phone = afterColon(line)
		case containsAny(lower, "email:", "correo:"):
			d.Email = afterColon(line)
		case containsAny(lower, "método de pago:", "metodo de pago:", "pago:"):
			d.PaymentMethod = DetectPaymentMethod(afterColon(line))
		case containsAny(lower, "transportista:", "envío:", "envio:"):
			d.Carrier = DetectCarrier(afterColon(line))
		case containsAny(lower, "tracking:", "seguimiento:"):
			d.Tracking = afterColon(line)
		case containsAny(lower, "observaciones:", "notas:"):
			d.Notes = afterColon(line)
		case containsAny(lower, "producto:", "libro:", "título:", "titulo:"):
			products = append(products, line)
		case genericProductRe.MatchString(line):
			products = append(products, line)
		}
	}

	for _, p := range products {
		if m := genericLineRe.FindStringSubmatch(p); m != nil {
			qty, _ := strconv.Atoi(m[1])
			if qty < 1 {
				qty = 1
			}
			dl := DraftLine{Quantity: qty, Name: strings.TrimSpace(m[2])}
			if m[3] != "" {
				dl.Price = parseAmount(m[3])
			}
			d.Lines = append(d.Lines, dl)
			continue
		}
		if name := strings.TrimSpace(genericPrefixRe.ReplaceAllString(p, "")); name != "" {
			d.Lines = append(d.Lines, DraftLine{Quantity: 1, Name: name})
		}
	}
	return d
}

// DetectPaymentMethod traduce el texto libre del pago a un método conocido ("" si no se reconoce).
func DetectPaymentMethod(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "tarjeta"):
		return "tarjeta"
	case strings.Contains(s, "paypal"):
		return "paypal"
	case strings.Contains(s, "transferencia"):
		return "transferencia"
	case strings.Contains(s, "reembolso"):
		return "reembolso"
	case strings.Contains(s, "bizum"):
		return "bizum"
	case strings.Contains(s, "efectivo"), strings.Contains(s, "señal"):
		return "efectivo"
	}
	return ""
}

var knownCarriers = []struct{ key, name string }{
	{"asm", "ASM"},
	{"gls", "GLS"},
	{"envialia", "Envialia"},
	{"correos", "Correos"},
	{"seur", "SEUR"},
	{"mrw", "MRW"},
}

// DetectCarrier normaliza el nombre del transportista; si no es conocido se devuelve tal cual.
func DetectCarrier(s string) string {
	lower := strings.ToLower(s)
	for _, c := range knownCarriers {
		if strings.Contains(lower, c.key) {
			return c.name
		}
	}
	return strings.TrimSpace(s)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func afterColon(line string) string {
	if i := strings.IndexByte(line, ':'); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}
