package export

import (
	"context"

	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
)

func (uc *UseCase) booksCSV(ctx context.Context) ([]byte, error) {
	books, err := uc.books.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID", "ISBN", "Título", "Autor", "Editorial", "Año", "Precio", "Stock", "Categoría",
		"Páginas", "Descripción", "Ubicación", "Notas", "Fecha Creación")
	for _, b := range books {
		t.row(itoa(b.ID), b.ISBN, b.Title, b.Author, b.Publisher, optInt(b.Year), money(b.Price),
			itoa(int64(b.Stock)), b.CategoryName, optInt(b.Pages), b.Description, b.Location, b.Notes,
			timestamp(b.CreatedAt))
	}
	return t.bytes(), nil
}

func (uc *UseCase) categoriesCSV(ctx context.Context) ([]byte, error) {
	cats, err := uc.categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID", "Nombre", "Descripción", "Activa", "Fecha Creación")
	for _, c := range cats {
		t.row(itoa(c.ID), c.Name, c.Description, yesNo(c.Active), timestamp(c.CreatedAt))
	}
	return t.bytes(), nil
}

func (uc *UseCase) clientsCSV(ctx context.Context) ([]byte, error) {
	clients, err := uc.clients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID", "Nombre", "Email", "Teléfono", "NIF", "Dirección", "Ciudad", "Código Postal",
		"País", "Activo", "Notas", "Fecha Creación")
	for _, c := range clients {
		t.row(c.ID, c.FullName(), c.Email, c.ContactPhone(), c.NIF, c.Address, c.City, c.PostalCode,
			c.Country, yesNo(c.Active), c.Notes, timestamp(c.CreatedAt))
	}
	return t.bytes(), nil
}

func (uc *UseCase) ordersCSV(ctx context.Context) ([]byte, error) {
	orders, err := uc.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID Pedido", "Número", "Cliente", "Email", "Teléfono", "Fecha", "Total", "Estado",
		"Transportista", "Notas")
	for _, o := range orders {
		number := o.ExternalRef
		if number == "" {
			number = itoa(o.ID)
		}
		t.row(itoa(o.ID), number, o.ClientName, o.ContactEmail(), o.ClientPhone, day(o.OrderDate),
			money(o.Total), domorder.Label(o.Status), o.Carrier, o.Notes)
	}
	return t.bytes(), nil
}

func (uc *UseCase) invoicesCSV(ctx context.Context) ([]byte, error) {
	invoices, err := uc.invoices.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID", "Número Factura", "Cliente", "NIF", "Dirección", "Fecha Emisión", "Estado",
		"Subtotal", "Tasa IVA (%)", "IVA", "Total", "Método Pago", "ID Pedido")
	for _, inv := range invoices {
		t.row(itoa(inv.ID), inv.Number, inv.CustomerName, inv.CustomerNIF, inv.Address, day(inv.IssueDate),
			inv.Status, money(inv.Subtotal), inv.TaxRate.String(), money(inv.TaxAmount), money(inv.Total),
			inv.PaymentMethod, itoa(inv.OrderID))
	}
	return t.bytes(), nil
}

func (uc *UseCase) locationsCSV(ctx context.Context) ([]byte, error) {
	locs, err := uc.locations.List(ctx, false)
	if err != nil {
		return nil, err
	}
	t := newCSV("ID", "Nombre", "Descripción", "Activa", "Fecha Creación")
	for _, l := range locs {
		t.row(itoa(l.ID), l.Name, l.Description, yesNo(l.Active), timestamp(l.CreatedAt))
	}
	return t.bytes(), nil
}
