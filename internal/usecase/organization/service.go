package organization

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/organization"

	"github.com/google/uuid"
)

var (
	innPattern  = regexp.MustCompile(`^\d{10}$`)
	ogrnPattern = regexp.MustCompile(`^\d{13}$`)
)

// Service encapsulates organization use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs an organization service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for organization creation.
type CreateInput struct {
	Name      string `json:"name"`
	INN       string `json:"inn"`
	OGRN      string `json:"ogrn"`
	LegalForm string `json:"legal_form"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Director  string `json:"director"`
}

// UpdateInput encapsulates partial organization updates.
type UpdateInput struct {
	Name      *string `json:"name"`
	LegalForm *string `json:"legal_form"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Director  *string `json:"director"`
	IsActive  *bool   `json:"is_active"`
}

// Create stores a new organization after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.INN = strings.TrimSpace(input.INN)
	input.OGRN = strings.TrimSpace(input.OGRN)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if !innPattern.MatchString(input.INN) {
		return nil, errors.New("INN must be 10 digits")
	}
	if !ogrnPattern.MatchString(input.OGRN) {
		return nil, errors.New("OGRN must be 13 digits")
	}

	form := domain.FormLLC
	if trimmed := strings.TrimSpace(input.LegalForm); trimmed != "" {
		form = domain.LegalForm(strings.ToUpper(trimmed))
		if !domain.ValidLegalForm(form) {
			return nil, domain.ErrInvalidLegalForm
		}
	}

	now := s.nowFunc().UTC()
	o := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      input.Name,
		INN:       input.INN,
		OGRN:      input.OGRN,
		LegalForm: form,
		Address:   strings.TrimSpace(input.Address),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Director:  strings.TrimSpace(input.Director),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// List retrieves organizations matching the filter.
func (s *Service) List(ctx context.Context, filter domain.Filter) ([]*domain.Organization, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches an organization by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies partial updates to an organization. INN and OGRN are
// immutable after creation.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New("name cannot be empty")
		}
		o.Name = name
	}
	if input.LegalForm != nil {
		form := domain.LegalForm(strings.ToUpper(strings.TrimSpace(*input.LegalForm)))
		if !domain.ValidLegalForm(form) {
			return nil, domain.ErrInvalidLegalForm
		}
		o.LegalForm = form
	}
	if input.Address != nil {
		o.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		o.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		o.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.Director != nil {
		o.Director = strings.TrimSpace(*input.Director)
	}
	if input.IsActive != nil {
		o.IsActive = *input.IsActive
	}

	o.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an organization.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return s.repo.Delete(ctx, id)
}
