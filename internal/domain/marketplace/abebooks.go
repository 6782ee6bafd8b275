package marketplace

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ParseAbeBooksOrders lee los <purchaseOrder> de una respuesta de la API de
// pedidos de AbeBooks (orderUpdateResponse) o de un XML pegado a mano.
func ParseAbeBooksOrders(data []byte) ([]*entity.MarketplaceOrder, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("abebooks: xml inválido: %w", err)
	}
	if e := doc.FindElement("//requestError"); e != nil {
		return nil, fmt.Errorf("abebooks: %s (código %s)", childText(e, "message"), childText(e, "code"))
	}

	var out []*entity.MarketplaceOrder
	for _, po := range doc.FindElements("//purchaseOrder") {
		o := &entity.MarketplaceOrder{
			ExternalID: po.SelectAttrValue("id", ""),
			Status:     normalizeAbeBooksStatus(po.SelectAttrValue("status", "")),
			OrderDate:  parseAbeBooksDate(po.FindElement("orderDate/date")),
		}
		if o.ExternalID == "" {
			continue
		}
		if addr := po.FindElement("buyer/mailingAddress"); addr != nil {
			street := childText(addr, "street")
			if s2 := childText(addr, "street2"); s2 != "" {
				street += ", " + s2
			}
			o.Customer = entity.MarketplaceCustomer{
				Name:       childText(addr, "name"),
				Address:    street,
				City:       childText(addr, "city"),
				Province:   childText(addr, "region"),
				PostalCode: childText(addr, "code"),
				Country:    childText(addr, "country"),
				Phone:      childText(addr, "phone"),
			}
		}
		o.Customer.Email = childText(po, "buyer/email")

		for _, it := range po.FindElements("purchaseOrderItemList/purchaseOrderItem") {
			item := entity.MarketplaceItem{
				SKU:      childText(it, "book/vendorKey"),
				Title:    childText(it, "book/title"),
				Author:   childText(it, "book/author"),
				Quantity: 1,
				Price:    parseAmount(childText(it, "book/price")),
			}
			if q, err := strconv.Atoi(childText(it, "book/quantity")); err == nil && q > 0 {
				item.Quantity = q
			}
			o.Items = append(o.Items, item)
			o.Subtotal = o.Subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		o.ShippingCost = parseAmount(childText(po, "orderTotals/shipping"))
		o.Total = parseAmount(childText(po, "orderTotals/total"))
		if o.Total.IsZero() {
			o.Total = o.Subtotal.Add(o.ShippingCost)
		}
		o.TrackingNumber = childText(po, "shipping/trackingCode")
		out = append(out, o)
	}
	return out, nil
}

// ParseAbeBooks convierte un XML de pedidos pegado en borradores de importación.
func ParseAbeBooks(text string) ([]*Draft, error) {
	orders, err := ParseAbeBooksOrders([]byte(text))
	if err != nil {
		return nil, err
	}
	drafts := make([]*Draft, 0, len(orders))
	for _, o := range orders {
		drafts = append(drafts, DraftFromAbeBooks(o))
	}
	return drafts, nil
}

// DraftFromAbeBooks borrador a partir de un pedido AbeBooks en caché.
func DraftFromAbeBooks(o *entity.MarketplaceOrder) *Draft {
	d := &Draft{
		Source:        SourceAbeBooks,
		Reference:     o.ExternalID,
		ClientName:    o.Customer.Name,
		Email:         o.Customer.Email,
		Phone:         o.Customer.Phone,
		Street:        o.Customer.Address,
		PostalCode:    o.Customer.PostalCode,
		City:          o.Customer.City,
		Province:      o.Customer.Province,
		Country:       o.Customer.Country,
		PaymentMethod: "tarjeta",
		Tracking:      o.TrackingNumber,
		Total:         o.Total,
	}
	if d.Country == "" {
		d.Country = DefaultCountry
	}
	for _, it := range o.Items {
		name := it.Title
		if it.Author != "" {
			name += " - " + it.Author
		}
		d.Lines = append(d.Lines, DraftLine{
			Quantity:  it.Quantity,
			Reference: it.SKU,
			Name:      fmt.Sprintf("%s (Ref: %s)", name, it.SKU),
			Price:     it.Price,
		})
	}
	return d
}

// normalizeAbeBooksStatus reduce los estados del API a New/Acknowledged/Shipped/Cancelled.
func normalizeAbeBooksStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acknowledged", "availabilityconfirmed", "confirmed":
		return entity.AbeBooksStatusAcknowledged
	case "shipped":
		return entity.AbeBooksStatusShipped
	case "cancelled", "canceled", "rejected", "unavailable":
		return entity.AbeBooksStatusCancelled
	default:
		return entity.AbeBooksStatusNew
	}
}

func parseAbeBooksDate(e *etree.Element) time.Time {
	if e == nil {
		return time.Time{}
	}
	y, _ := strconv.Atoi(childText(e, "year"))
	m, _ := strconv.Atoi(childText(e, "month"))
	d, _ := strconv.Atoi(childText(e, "day"))
	if y == 0 || m == 0 || d == 0 {
		return time.Time{}
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func childText(e *etree.Element, path string) string {
	if c := e.FindElement(path); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
