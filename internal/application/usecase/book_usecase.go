package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/application/ports"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/catalog"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

const (
	searchLimit      = 20
	repairBatchSize  = 10
	defaultTaxRatePc = 21
)

// BookUseCase casos de uso del catálogo de libros.
type BookUseCase struct {
	repo      repository.BookRepository
	settings  ports.SettingsProvider
	discounts ports.DiscountProvider
	now       func() time.Time
}

// NewBookUseCase construye el caso de uso. settings puede ser nil (IVA 21%).
func NewBookUseCase(repo repository.BookRepository, settings ports.SettingsProvider) *BookUseCase {
	return &BookUseCase{repo: repo, settings: settings, now: time.Now}
}

// WithDiscounts calcula el precio de venta con el mejor descuento vigente.
func (uc *BookUseCase) WithDiscounts(d ports.DiscountProvider) *BookUseCase {
	uc.discounts = d
	return uc
}

func (uc *BookUseCase) taxRate(ctx context.Context) decimal.Decimal {
	if uc.settings != nil {
		if b, err := uc.settings.Billing(ctx); err == nil {
			return decimal.NewFromFloat(b.TaxRate)
		}
	}
	return decimal.NewFromInt(defaultTaxRatePc)
}

// bookPricing IVA y descuentos vigentes, leídos una vez por petición.
type bookPricing struct {
	rate  decimal.Decimal
	rules []*entity.DiscountRule
	now   time.Time
}

// pricing sin descuentos si el proveedor falla: el catálogo se sirve a precio de lista.
func (uc *BookUseCase) pricing(ctx context.Context) bookPricing {
	p := bookPricing{rate: uc.taxRate(ctx), now: uc.now()}
	if uc.discounts != nil {
		if rules, err := uc.discounts.ActiveRules(ctx); err == nil {
			p.rules = rules
		}
	}
	return p
}

func (p bookPricing) response(b *entity.Book) *dto.BookResponse {
	r := toBookResponse(b, p.rate)
	if r == nil {
		return nil
	}
	if pct := entity.BestDiscount(p.rules, b.CategoryID, p.now); pct.IsPositive() {
		r.DiscountPercent = pct
		r.SalePrice = catalog.ApplyDiscount(b.Price, pct)
	}
	return r
}

// NextCode siguiente código libre para la ubicación.
func (uc *BookUseCase) NextCode(ctx context.Context, location string) (string, error) {
	last, err := uc.repo.MaxCodeNumber(ctx, catalog.SuffixForLocation(location))
	if err != nil {
		return "", fmt.Errorf("libros: código máximo: %w", err)
	}
	return catalog.FormatCode(strconv.FormatInt(last+1, 10), location), nil
}

// Create da de alta un libro. Sin código se asigna el siguiente de la ubicación;
// con código se normaliza al sufijo de la ubicación.
func (uc *BookUseCase) Create(ctx context.Context, in dto.CreateBookRequest) (*dto.BookResponse, error) {
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = catalog.LocationWarehouse
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		var err error
		if code, err = uc.NextCode(ctx, location); err != nil {
			return nil, err
		}
	} else {
		code = catalog.NormalizeCode(code, location)
	}
	if existing, _ := uc.repo.GetByCode(ctx, code); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	book := &entity.Book{
		Code:        code,
		Title:       textnorm.CollapseSpaces(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Publisher:   strings.TrimSpace(in.Publisher),
		ISBN:        strings.TrimSpace(in.ISBN),
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		Location:    location,
		Language:    in.Language,
		Condition:   in.Condition,
		Year:        in.Year,
		Pages:       in.Pages,
		Description: in.Description,
		CoverURL:    in.CoverURL,
		Notes:       in.Notes,
		Featured:    in.Featured,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if book.Language == "" {
		book.Language = entity.DefaultLanguage
	}
	if book.Condition == "" {
		book.Condition = entity.ConditionGood
	}
	if err := uc.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return uc.pricing(ctx).response(book), nil
}

// GetByID obtiene un libro. Devuelve (nil, nil) si no existe.
func (uc *BookUseCase) GetByID(ctx context.Context, id int64) (*dto.BookResponse, error) {
	book, err := uc.repo.GetByID(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	return uc.pricing(ctx).response(book), nil
}

// Update actualización parcial.
func (uc *BookUseCase) Update(ctx context.Context, id int64, in dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	if in.Title != nil {
		book.Title = textnorm.CollapseSpaces(*in.Title)
	}
	if in.Author != nil {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.Publisher != nil {
		book.Publisher = strings.TrimSpace(*in.Publisher)
	}
	if in.ISBN != nil {
		book.ISBN = strings.TrimSpace(*in.ISBN)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		book.Price = in.Price.Round(2)
	}
	if in.Stock != nil {
		book.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		book.CategoryID = in.CategoryID
	}
	if in.Location != nil && *in.Location != "" {
		book.Location = *in.Location
	}
	if in.Code != nil && *in.Code != "" {
		book.Code = *in.Code
	}
	// Al cambiar de ubicación el sufijo del código debe acompañarla.
	if book.Code != "" && !catalog.ValidateCodeForLocation(book.Code, book.Location) {
		newCode := catalog.NormalizeCode(book.Code, book.Location)
		if other, _ := uc.repo.GetByCode(ctx, newCode); other != nil && other.ID != book.ID {
			return nil, domain.ErrDuplicate
		}
		book.Code = newCode
	}
	if in.Language != nil {
		book.Language = *in.Language
	}
	if in.Condition != nil {
		book.Condition = *in.Condition
	}
	if in.Year != nil {
		book.Year = *in.Year
	}
	if in.Pages != nil {
		book.Pages = *in.Pages
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.CoverURL != nil {
		book.CoverURL = *in.CoverURL
	}
	if in.Notes != nil {
		book.Notes = *in.Notes
	}
	if in.Featured != nil {
		book.Featured = *in.Featured
	}
	if in.Active != nil {
		book.Active = *in.Active
	}
	book.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return uc.pricing(ctx).response(book), nil
}

// Delete baja lógica.
func (uc *BookUseCase) Delete(ctx context.Context, id int64) error {
	book, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(ctx, id)
}

// AdjustStock suma delta al stock; nunca deja stock negativo.
func (uc *BookUseCase) AdjustStock(ctx context.Context, id int64, delta int) (*dto.BookResponse, error) {
	book, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound
	}
	if book.Stock+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	book.Stock += delta
	book.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return uc.pricing(ctx).response(book), nil
}

// List listado con filtros y paginación.
func (uc *BookUseCase) List(ctx context.Context, f dto.BookFilterRequest, onlyActive bool, limit, offset int) (*dto.BookListResponse, error) {
	list, total, err := uc.repo.List(ctx, entity.BookFilter{
		Query:      textnorm.Fold(f.Query),
		CategoryID: f.CategoryID,
		Location:   f.Location,
		Featured:   f.Featured,
		InStock:    f.InStock,
		OnlyActive: onlyActive,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	pr := uc.pricing(ctx)
	items := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *pr.response(b))
	}
	return &dto.BookListResponse{
		Items: items,
		Page:  dto.NewPageResponse(limit, offset, total),
	}, nil
}

// Search una entrada numérica se busca primero como ID o código exacto;
// si no hay coincidencia se hace búsqueda difusa por título, autor o ISBN.
func (uc *BookUseCase) Search(ctx context.Context, q string) ([]dto.BookResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.BookResponse{}, nil
	}
	pr := uc.pricing(ctx)
	if book, err := uc.findExact(ctx, q); err != nil {
		return nil, err
	} else if book != nil {
		return []dto.BookResponse{*pr.response(book)}, nil
	}
	list, err := uc.repo.Search(ctx, textnorm.Fold(q), searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *pr.response(b))
	}
	return out, nil
}

// FindByReference resuelve una referencia de marketplace (código o ID).
func (uc *BookUseCase) FindByReference(ctx context.Context, ref string) (*entity.Book, error) {
	return uc.findExact(ctx, strings.TrimSpace(ref))
}

func (uc *BookUseCase) findExact(ctx context.Context, q string) (*entity.Book, error) {
	if q == "" {
		return nil, nil
	}
	book, err := uc.repo.GetByCode(ctx, q)
	if err != nil || book != nil {
		return book, err
	}
	if id, convErr := strconv.ParseInt(q, 10, 64); convErr == nil && id > 0 {
		return uc.repo.GetByID(ctx, id)
	}
	return nil, nil
}

// RepairEncoding recorre el catálogo en lotes y corrige caracteres mal codificados
// en título, autor, editorial y descripción.
func (uc *BookUseCase) RepairEncoding(ctx context.Context) (*dto.RepairEncodingResponse, error) {
	res := &dto.RepairEncodingResponse{}
	var after int64
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch, err := uc.repo.ListBatch(ctx, after, repairBatchSize)
		if err != nil {
			return res, fmt.Errorf("reparar codificación: %w", err)
		}
		if len(batch) == 0 {
			return res, nil
		}
		for _, b := range batch {
			after = b.ID
			res.Scanned++
			if !repairBook(b) {
				continue
			}
			if err := uc.repo.UpdateText(ctx, b); err != nil {
				res.Errors++
				continue
			}
			res.Fixed++
		}
	}
}

func repairBook(b *entity.Book) bool {
	changed := false
	for _, f := range []*string{&b.Title, &b.Author, &b.Publisher, &b.Description} {
		if fixed, ok := textnorm.RepairMojibake(*f); ok {
			*f = fixed
			changed = true
		}
	}
	return changed
}

func toBookResponse(b *entity.Book, ratePct decimal.Decimal) *dto.BookResponse {
	if b == nil {
		return nil
	}
	return &dto.BookResponse{
		ID:              b.ID,
		Code:            b.Code,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		ISBN:            b.ISBN,
		Price:           b.Price,
		PriceWithoutTax: catalog.PriceWithoutTax(b.Price, ratePct),
		SalePrice:       b.Price,
		Stock:           b.Stock,
		CategoryID:      b.CategoryID,
		CategoryName:    b.CategoryName,
		Location:        b.Location,
		Language:        b.Language,
		Condition:       b.Condition,
		Year:            b.Year,
		Pages:           b.Pages,
		Description:     b.Description,
		CoverURL:        b.CoverURL,
		Notes:           b.Notes,
		Featured:        b.Featured,
		Active:          b.Active,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
