package marketplace

import (
	"testing"
	"time"

	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iberLibroSample = "Albarán de envío\r\n" +
	"Para:\r\n" +
	"Juan Pérez García\r\n" +
	"Calle de Alcalá 45, 3º izq\r\n" +
	"\r\n" +
	"28043 Madrid\r\n" +
	"Madrid\r\n" +
	"España\r\n" +
	"ADUANAS / CUSTOMS\r\n" +
	"Contenido: libros usados\r\n" +
	"Valor declarado: 15 EUR\r\n" +
	"Phone: +34 600 123 456\r\n" +
	"Nº de pedido: 123456789\r\n" +
	"Artículo Autor Título Nº de referencia\r\n" +
	"1 BORGES, Jorge Luis Ficciones 02273892\r\n" +
	"\r\n" +
	"2 CORTÁZAR Rayuela 00012345\r\n" +
	"Descripción: Buen estado\r\n" +
	"3 NO DEBE LEERSE 99999\r\n"

func TestParseIberLibro(t *testing.T) {
	d := ParseIberLibro(iberLibroSample)

	assert.Equal(t, SourceIberLibro, d.Source)
	assert.Equal(t, "Juan Pérez García", d.ClientName)
	assert.Equal(t, "Calle de Alcalá 45, 3º izq", d.Street)
	assert.Equal(t, "28043", d.PostalCode)
	assert.Equal(t, "Madrid", d.City)
	assert.Equal(t, "Madrid", d.Province)
	assert.Equal(t, "España", d.Country)
	assert.Equal(t, "+34 600 123 456", d.Phone)
	assert.Equal(t, "ADUANAS / CUSTOMS\nContenido: libros usados\nValor declarado: 15 EUR", d.Notes)
	assert.Equal(t, "Calle de Alcalá 45, 3º izq, 28043, Madrid, España", d.FullAddress())

	require.Len(t, d.Lines, 2)
	assert.Equal(t, 1, d.Lines[0].Quantity)
	assert.Equal(t, "02273892", d.Lines[0].Reference)
	assert.Equal(t, "BORGES, Jorge Luis Ficciones (Ref: 02273892)", d.Lines[0].Name)
	assert.True(t, d.Lines[0].Price.IsZero())
	assert.Equal(t, 2, d.Lines[1].Quantity)
	assert.Equal(t, "00012345", d.Lines[1].Reference)
}

func TestParseIberLibro_SinCodigoPostalNiPais(t *testing.T) {
	text := "Para:\nAna Ruiz\nRua Augusta 10\nLisboa centro\nPhone: 123\n"
	d := ParseIberLibro(text)

	assert.Equal(t, "Ana Ruiz", d.ClientName)
	assert.Equal(t, "Rua Augusta 10, Lisboa centro", d.Street)
	assert.Empty(t, d.PostalCode)
	assert.Equal(t, DefaultCountry, d.Country)
	assert.Equal(t, "123", d.Phone)
	assert.Empty(t, d.Lines)
}

func TestParseIberLibro_PaisExtranjeroYProvinciaPorDefecto(t *testing.T) {
	text := "Para:\nMarie Curie\n12 rue de Paris\n75001 Paris\nFrance\nPhone: 33\n"
	d := ParseIberLibro(text)

	assert.Equal(t, "France", d.Country)
	assert.Equal(t, "75001", d.PostalCode)
	assert.Equal(t, "Paris", d.City)
	assert.Equal(t, "Paris", d.Province)
	assert.Equal(t, "12 rue de Paris", d.Street)
}

const uniliberSample = `Referencia: 02273892
El nombre de la rosa
Umberto Eco
Tapa blanda
Precio total
33,00 €
Nombre: Laura Gómez Ruiz
Dirección: Calle Mayor 5, 2ºB
Población: Granada
Provincia: Granada
C. Postal: 18600 (Granada)
País: España
Email: laura@example.com
Teléfono: 958000000
Móvil: 600111222`

func TestParseUniliber(t *testing.T) {
	d := ParseUniliber(uniliberSample)

	assert.Equal(t, SourceUniliber, d.Source)
	assert.Equal(t, "02273892", d.Reference)
	assert.Equal(t, "Laura Gómez Ruiz", d.ClientName)
	assert.Equal(t, "Calle Mayor 5, 2ºB", d.Street)
	assert.Equal(t, "Granada", d.City)
	assert.Equal(t, "Granada", d.Province)
	assert.Equal(t, "18600", d.PostalCode)
	assert.Equal(t, "España", d.Country)
	assert.Equal(t, "laura@example.com", d.Email)
	assert.Equal(t, "958000000", d.Phone)
	assert.Equal(t, "600111222", d.ContactPhone())
	assert.True(t, decimal.RequireFromString("33").Equal(d.Total))
	assert.Equal(t, "Calle Mayor 5, 2ºB, 18600, Granada, España", d.FullAddress())

	require.Len(t, d.Lines, 1)
	l := d.Lines[0]
	assert.Equal(t, 1, l.Quantity)
	assert.Equal(t, "02273892", l.Reference)
	assert.Equal(t, "El nombre de la rosa - Umberto Eco (Ref: 02273892)", l.Name)
	assert.True(t, decimal.RequireFromString("33").Equal(l.Price))
}

func TestParseUniliber_PrecioEnMismaLineaYSinTitulo(t *testing.T) {
	text := "Ref: A-77\nCliente: Pedro\nPrecio total: 12.50 €\n"
	d := ParseUniliber(text)

	assert.Equal(t, "A-77", d.Reference)
	assert.Equal(t, "Pedro", d.ClientName)
	assert.True(t, decimal.RequireFromString("12.5").Equal(d.Total))
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "Producto Uniliber (Ref: A-77)", d.Lines[0].Name)
	assert.Empty(t, d.Country, "Uniliber no supone país")
	assert.NotContains(t, d.FullAddress(), DefaultCountry)
}

func TestParseGeneric(t *testing.T) {
	text := `Cliente: María López
Dirección: Av. Libertad 3, Murcia
Email: maria@example.com
Método de pago: Transferencia bancaria
Transportista: envío por GLS urgente
Tracking: GLS123
Observaciones: Entregar por la tarde
2 x El Quijote - 12,50€
1 Rayuela
Producto: Cien años de soledad`
	d := ParseGeneric(text)

	assert.Equal(t, "María López", d.ClientName)
	assert.Equal(t, "Av. Libertad 3, Murcia", d.RawAddress)
	assert.Equal(t, "Av. Libertad 3, Murcia", d.FullAddress())
	assert.Equal(t, "maria@example.com", d.Email)
	assert.Equal(t, "transferencia", d.PaymentMethod)
	assert.Equal(t, "GLS", d.Carrier)
	assert.Equal(t, "GLS123", d.Tracking)
	assert.Equal(t, "Entregar por la tarde", d.Notes)

	require.Len(t, d.Lines, 3)
	assert.Equal(t, 2, d.Lines[0].Quantity)
	assert.Equal(t, "El Quijote", d.Lines[0].Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(d.Lines[0].Price))
	assert.Equal(t, "Rayuela", d.Lines[1].Name)
	assert.True(t, d.Lines[1].Price.IsZero())
	assert.Equal(t, "Cien años de soledad", d.Lines[2].Name)
	assert.Equal(t, 1, d.Lines[2].Quantity)
}

func TestDetectPaymentMethodYCarrier(t *testing.T) {
	assert.Equal(t, "efectivo", DetectPaymentMethod("Señal en efectivo"))
	assert.Equal(t, "bizum", DetectPaymentMethod("BIZUM"))
	assert.Equal(t, "", DetectPaymentMethod("cheque"))
	assert.Equal(t, "Correos", DetectCarrier("correos express"))
	assert.Equal(t, "Nacex", DetectCarrier(" Nacex "))
}

func TestSplitName(t *testing.T) {
	n, s := SplitName("Laura Gómez Ruiz")
	assert.Equal(t, "Laura", n)
	assert.Equal(t, "Gómez Ruiz", s)
	n, s = SplitName("Cher")
	assert.Equal(t, "Cher", n)
	assert.Empty(t, s)
}

const abeBooksSample = `<?xml version="1.0" encoding="UTF-8"?>
<orderUpdateResponse version="1.1">
  <purchaseOrderList>
    <purchaseOrder id="778899" status="Ordered">
      <buyer>
        <email>buyer@example.com</email>
        <mailingAddress>
          <name>John Smith</name>
          <street>10 Downing St</street>
          <street2>Flat 2</street2>
          <city>London</city>
          <region>Greater London</region>
          <code>SW1A 2AA</code>
          <country>United Kingdom</country>
          <phone>+44 20 0000</phone>
        </mailingAddress>
      </buyer>
      <orderDate><date><year>2024</year><month>3</month><day>15</day></date></orderDate>
      <purchaseOrderItemList>
        <purchaseOrderItem id="1">
          <book>
            <vendorKey>001234G</vendorKey>
            <title>Ficciones</title>
            <author>Borges</author>
            <price currency="EUR">18.00</price>
          </book>
        </purchaseOrderItem>
      </purchaseOrderItemList>
      <orderTotals><shipping>6.50</shipping><total>24.50</total></orderTotals>
    </purchaseOrder>
    <purchaseOrder id="778900" status="Shipped">
      <purchaseOrderItemList/>
    </purchaseOrder>
  </purchaseOrderList>
</orderUpdateResponse>`

func TestParseAbeBooksOrders(t *testing.T) {
	orders, err := ParseAbeBooksOrders([]byte(abeBooksSample))
	require.NoError(t, err)
	require.Len(t, orders, 2)

	o := orders[0]
	assert.Equal(t, "778899", o.ExternalID)
	assert.Equal(t, entity.AbeBooksStatusNew, o.Status)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), o.OrderDate)
	assert.Equal(t, "John Smith", o.Customer.Name)
	assert.Equal(t, "10 Downing St, Flat 2", o.Customer.Address)
	assert.Equal(t, "SW1A 2AA", o.Customer.PostalCode)
	assert.Equal(t, "buyer@example.com", o.Customer.Email)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "001234G", o.Items[0].SKU)
	assert.True(t, decimal.RequireFromString("18").Equal(o.Subtotal))
	assert.True(t, decimal.RequireFromString("6.5").Equal(o.ShippingCost))
	assert.True(t, decimal.RequireFromString("24.5").Equal(o.Total))

	assert.Equal(t, entity.AbeBooksStatusShipped, orders[1].Status)
	assert.True(t, orders[1].Total.IsZero())
}

func TestParseAbeBooks_Borradores(t *testing.T) {
	drafts, err := ParseAbeBooks(abeBooksSample)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	d := drafts[0]
	assert.Equal(t, SourceAbeBooks, d.Source)
	assert.Equal(t, "778899", d.Reference)
	assert.Equal(t, "United Kingdom", d.Country)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "001234G", d.Lines[0].Reference)
	assert.Equal(t, "Ficciones - Borges (Ref: 001234G)", d.Lines[0].Name)
	assert.Equal(t, DefaultCountry, drafts[1].Country)
}

func TestParseAbeBooksOrders_Errores(t *testing.T) {
	_, err := ParseAbeBooksOrders([]byte("<no cerrado"))
	assert.Error(t, err)

	_, err = ParseAbeBooksOrders([]byte(`<orderUpdateResponse><requestError><code>3</code><message>Invalid key</message></requestError></orderUpdateResponse>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}
