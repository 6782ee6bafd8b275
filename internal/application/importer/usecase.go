// Package importer crea pedidos a partir del texto copiado de los marketplaces.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/libreria-api/internal/application/dto"
	apporder "github.com/jhoicas/libreria-api/internal/application/order"
	"github.com/jhoicas/libreria-api/internal/application/usecase"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/marketplace"
	domorder "github.com/jhoicas/libreria-api/internal/domain/order"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/logger"
)

// UseCase importación de pedidos de marketplaces.
type UseCase struct {
	books   repository.BookRepository
	clients *usecase.ClientUseCase
	orders  *apporder.UseCase
	log     *logger.Logger
}

// NewUseCase construye el importador.
func NewUseCase(books repository.BookRepository, clients *usecase.ClientUseCase, orders *apporder.UseCase, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{books: books, clients: clients, orders: orders, log: log}
}

// Parse interpreta el texto según el origen. AbeBooks puede contener varios pedidos.
func Parse(source, text string) ([]*marketplace.Draft, error) {
	if !marketplace.IsValidSource(source) {
		return nil, fmt.Errorf("%w: origen %q", domain.ErrInvalidInput, source)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: texto vacío", domain.ErrInvalidInput)
	}
	switch marketplace.Source(source) {
	case marketplace.SourceIberLibro:
		return []*marketplace.Draft{marketplace.ParseIberLibro(text)}, nil
	case marketplace.SourceUniliber:
		return []*marketplace.Draft{marketplace.ParseUniliber(text)}, nil
	case marketplace.SourceAbeBooks:
		drafts, err := marketplace.ParseAbeBooks(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return drafts, nil
	default:
		return []*marketplace.Draft{marketplace.ParseGeneric(text)}, nil
	}
}

// OrderTypeFor tipo de pedido que genera cada origen; el texto libre es venta de tienda.
func OrderTypeFor(s marketplace.Source) string {
	switch s {
	case marketplace.SourceIberLibro:
		return entity.OrderTypeIberLibro
	case marketplace.SourceUniliber:
		return entity.OrderTypeUniliber
	case marketplace.SourceAbeBooks:
		return entity.OrderTypeAbeBooks
	}
	return entity.OrderTypeStore
}

// resolveLine busca la referencia por código y, si es numérica, por ID.
func (uc *UseCase) resolveLine(ctx context.Context, l marketplace.DraftLine) (*entity.Book, error) {
	ref := strings.TrimSpace(l.Reference)
	if ref == "" {
		return nil, nil
	}
	b, err := uc.books.GetByCode(ctx, ref)
	if err != nil || b != nil {
		return b, err
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		return uc.books.GetByID(ctx, id)
	}
	return nil, nil
}

// Preview borradores con las líneas resueltas contra el catálogo y los clientes que coinciden.
func (uc *UseCase) Preview(ctx context.Context, in dto.ImportRequest) ([]dto.ImportPreviewResponse, error) {
	drafts, err := Parse(in.Source, in.Text)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportPreviewResponse, 0, len(drafts))
	for _, d := range drafts {
		p := dto.ImportPreviewResponse{
			Source:          string(d.Source),
			Reference:       d.Reference,
			ClientName:      d.ClientName,
			Email:           d.Email,
			Phone:           d.ContactPhone(),
			ShippingAddress: d.FullAddress(),
			Street:          d.Street,
			PostalCode:      d.PostalCode,
			City:            d.City,
			Province:        d.Province,
			Country:         d.Country,
			Notes:           d.Notes,
			PaymentMethod:   d.PaymentMethod,
			Carrier:         d.Carrier,
			Tracking:        d.Tracking,
			Total:           d.Total,
			Lines:           make([]dto.ImportLinePreview, 0, len(d.Lines)),
			MatchedClients:  []dto.ClientResponse{},
		}
		for _, l := range d.Lines {
			b, err := uc.resolveLine(ctx, l)
			if err != nil {
				return nil, err
			}
			lp := dto.ImportLinePreview{Reference: l.Reference, Name: l.Name, Quantity: l.Quantity, UnitPrice: l.Price}
			if b != nil {
				id := b.ID
				lp.BookID, lp.Name, lp.UnitPrice, lp.Found = &id, b.Title, b.Price, true
			}
			p.Lines = append(p.Lines, lp)
		}
		matches, err := uc.clients.FindMatches(ctx, d.ClientName, d.ContactPhone(), d.Email)
		if err != nil {
			return nil, err
		}
		for _, c := range matches {
			p.MatchedClients = append(p.MatchedClients, *usecase.ToClientResponse(c))
		}
		out = append(out, p)
	}
	return out, nil
}

// pending borrador validado a la espera de cliente y alta.
type pending struct {
	draft *marketplace.Draft
	order apporder.NewOrder
}

// Import crea un pedido por borrador, reutilizando o creando el cliente.
// Primero se validan todos los borradores; después los pedidos se crean en una
// sola transacción. Las referencias ya importadas se omiten.
func (uc *UseCase) Import(ctx context.Context, in dto.ImportRequest, actorID string) (*dto.ImportResult, error) {
	drafts, err := Parse(in.Source, in.Text)
	if err != nil {
		return nil, err
	}
	res := &dto.ImportResult{Orders: make([]dto.OrderResponse, 0, len(drafts))}
	seen := map[string]bool{}
	var todo []pending
	for _, d := range drafts {
		typ := OrderTypeFor(d.Source)
		if d.Reference != "" {
			exists, err := uc.orders.ExternalRefExists(ctx, typ, d.Reference)
			if err != nil {
				return nil, err
			}
			if exists || seen[d.Reference] {
				res.Skipped = append(res.Skipped, d.Reference)
				continue
			}
			seen[d.Reference] = true
		}
		lines, err := uc.buildLines(ctx, d)
		if err != nil {
			if d.Reference != "" {
				return nil, fmt.Errorf("pedido %s: %w", d.Reference, err)
			}
			return nil, err
		}
		pm := d.PaymentMethod
		if !domorder.IsValidPaymentMethod(pm) {
			pm = ""
		}
		no := apporder.NewOrder{
			Type:            typ,
			PaymentMethod:   pm,
			ShippingAddress: d.FullAddress(),
			Carrier:         d.Carrier,
			TrackingNumber:  d.Tracking,
			Notes:           d.Notes,
			ExternalRef:     d.Reference,
			Lines:           lines,
		}
		// Validación sin cliente: el cliente se busca o crea solo si todo el lote es válido.
		if _, err := uc.orders.Build(ctx, no); err != nil {
			return nil, err
		}
		todo = append(todo, pending{draft: d, order: no})
	}
	if len(todo) == 0 {
		return res, nil
	}

	built := make([]*entity.Order, 0, len(todo))
	for _, p := range todo {
		d := p.draft
		client, created, err := uc.clients.MatchOrCreate(ctx, d.ClientName, d.Phone, d.Mobile, d.Email, clientDefaults(d))
		if err != nil {
			return nil, err
		}
		res.ClientCreated = res.ClientCreated || created
		p.order.ClientID = client.ID
		o, err := uc.orders.Build(ctx, p.order)
		if err != nil {
			return nil, err
		}
		built = append(built, o)
	}
	if err := uc.orders.CreateOrders(ctx, built, actorID); err != nil {
		return nil, err
	}
	for i, o := range built {
		d := todo[i].draft
		uc.log.Info().Int64("pedido_id", o.ID).Str("origen", string(d.Source)).Str("referencia", d.Reference).Msg("pedido importado")
		res.Orders = append(res.Orders, *apporder.ToOrderResponse(o))
	}
	return res, nil
}

func (uc *UseCase) buildLines(ctx context.Context, d *marketplace.Draft) ([]*entity.OrderLine, error) {
	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("%w: no se encontraron productos en el pedido", domain.ErrInvalidInput)
	}
	out := make([]*entity.OrderLine, 0, len(d.Lines))
	for _, l := range d.Lines {
		qty := l.Quantity
		if qty < 1 {
			qty = 1
		}
		b, err := uc.resolveLine(ctx, l)
		if err != nil {
			return nil, err
		}
		if b != nil {
			id := b.ID
			out = append(out, &entity.OrderLine{BookID: &id, Quantity: qty, UnitPrice: b.Price, BookTitle: b.Title, BookCode: b.Code})
			continue
		}
		name := strings.TrimSpace(l.Name)
		if name == "" {
			name = "Producto " + d.Source.Label()
		}
		out = append(out, &entity.OrderLine{ExternalName: name, Quantity: qty, UnitPrice: l.Price})
	}
	return out, nil
}

// clientDefaults datos del cliente nuevo tomados del borrador.
func clientDefaults(d *marketplace.Draft) entity.Client {
	notes := "Cliente importado de " + d.Source.Label()
	if d.Source == marketplace.SourceUniliber && d.Reference != "" {
		notes = fmt.Sprintf("Cliente importado de Uniliber (Ref Pedido: %s)", d.Reference)
	}
	c := entity.Client{
		Mobile:     d.Mobile,
		Address:    d.Street,
		City:       d.City,
		PostalCode: d.PostalCode,
		Province:   d.Province,
		Country:    d.Country,
		Notes:      notes,
	}
	if c.Address == "" {
		c.Address = d.RawAddress
	}
	return c
}
