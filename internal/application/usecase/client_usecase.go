package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/libreria-api/internal/application/dto"
	"github.com/jhoicas/libreria-api/internal/domain"
	"github.com/jhoicas/libreria-api/internal/domain/entity"
	"github.com/jhoicas/libreria-api/internal/domain/repository"
	"github.com/jhoicas/libreria-api/pkg/textnorm"
)

// ClientUseCase gestión de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create alta de cliente. Tipo por defecto particular y país España.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c := &entity.Client{ID: uuid.New().String(), Active: true, CreatedAt: time.Now()}
	if err := applyClientRequest(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = c.CreatedAt
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	if err := applyClientRequest(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return ToClientResponse(c), nil
}

func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// List ordenado por apellidos y nombre; query filtra por nombre, email o teléfono.
func (uc *ClientUseCase) List(ctx context.Context, query string, limit, offset int) (*dto.ClientListResponse, error) {
	list, total, err := uc.repo.List(ctx, textnorm.Fold(query), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToClientResponse(c))
	}
	return &dto.ClientListResponse{Items: items, Page: dto.NewPageResponse(limit, offset, total)}, nil
}

// FindMatches clientes que coinciden por nombre (contenido, sin tildes), teléfono o email.
func (uc *ClientUseCase) FindMatches(ctx context.Context, name, phone, email string) ([]*entity.Client, error) {
	name = textnorm.Fold(name)
	if name == "" && phone == "" && email == "" {
		return nil, nil
	}
	return uc.repo.FindCandidates(ctx, name, strings.TrimSpace(phone), strings.ToLower(strings.TrimSpace(email)))
}

// MatchOrCreate usa el único cliente coincidente o crea uno particular nuevo.
// Si hay varias coincidencias se crea igualmente uno nuevo para no asignar el pedido
// al cliente equivocado. La búsqueda usa el móvil si lo hay y el fijo si no; el
// cliente nuevo guarda cada número en su campo. Devuelve el cliente y si se creó.
func (uc *ClientUseCase) MatchOrCreate(ctx context.Context, fullName, phone, mobile, email string, defaults entity.Client) (*entity.Client, bool, error) {
	phone, mobile = strings.TrimSpace(phone), strings.TrimSpace(mobile)
	contact := mobile
	if contact == "" {
		contact = phone
	}
	matches, err := uc.FindMatches(ctx, fullName, contact, email)
	if err != nil {
		return nil, false, err
	}
	if len(matches) == 1 {
		return matches[0], false, nil
	}
	name, surname := splitFullName(fullName)
	now := time.Now()
	c := defaults
	c.ID = uuid.New().String()
	c.Type = entity.ClientTypeIndividual
	c.Name = name
	c.Surname = surname
	c.Phone = phone
	if mobile != "" {
		c.Mobile = mobile
	}
	c.Email = strings.ToLower(strings.TrimSpace(email))
	if c.Country == "" {
		c.Country = entity.DefaultCountry
	}
	c.Active = true
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Name == "" {
		c.Name = "Cliente sin nombre"
	}
	if err := uc.repo.Create(ctx, &c); err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func splitFullName(full string) (string, string) {
	full = textnorm.CollapseSpaces(full)
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func applyClientRequest(c *entity.Client, in dto.ClientRequest) error {
	t := in.Type
	if t == "" {
		t = entity.ClientTypeIndividual
	}
	if !entity.IsValidClientType(t) {
		return domain.ErrInvalidInput
	}
	c.Type = t
	c.Name = strings.TrimSpace(in.Name)
	c.Surname = strings.TrimSpace(in.Surname)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.Mobile = strings.TrimSpace(in.Mobile)
	c.NIF = strings.ToUpper(strings.TrimSpace(in.NIF))
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Province = strings.TrimSpace(in.Province)
	c.Country = strings.TrimSpace(in.Country)
	if c.Country == "" {
		c.Country = entity.DefaultCountry
	}
	c.ContactPerson = strings.TrimSpace(in.ContactPerson)
	c.Notes = in.Notes
	if in.Active != nil {
		c.Active = *in.Active
	}
	return nil
}

// ToClientResponse mapea la entidad a su DTO.
func ToClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:            c.ID,
		Type:          c.Type,
		Name:          c.Name,
		Surname:       c.Surname,
		FullName:      c.FullName(),
		Email:         c.Email,
		Phone:         c.Phone,
		Mobile:        c.Mobile,
		NIF:           c.NIF,
		Address:       c.Address,
		City:          c.City,
		PostalCode:    c.PostalCode,
		Province:      c.Province,
		Country:       c.Country,
		ContactPerson: c.ContactPerson,
		Notes:         c.Notes,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
	}
}
