package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/site"

	"github.com/google/uuid"
)

// Service encapsulates construction-site use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a site service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for site creation.
type CreateInput struct {
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	OrganizationID string     `json:"organization_id"`
	DateStart      time.Time  `json:"date_start"`
	DateEnd        *time.Time `json:"date_end"`
}

// UpdateInput encapsulates partial site updates.
type UpdateInput struct {
	Name           *string    `json:"name"`
	Address        *string    `json:"address"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	OrganizationID *string    `json:"organization_id"`
	DateStart      *time.Time `json:"date_start"`
	DateEnd        *time.Time `json:"date_end"`
}

// Create stores a new site after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Site, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Address == "" {
		return nil, errors.New("address is required")
	}
	if input.DateStart.IsZero() {
		return nil, errors.New("start date is required")
	}

	status := domain.StatusActive
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		status = domain.Status(trimmed)
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
	}

	now := s.nowFunc().UTC()
	st := &domain.Site{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Address:        input.Address,
		Description:    strings.TrimSpace(input.Description),
		Status:         status,
		OrganizationID: strings.TrimSpace(input.OrganizationID),
		DateStart:      input.DateStart,
		DateEnd:        input.DateEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// List retrieves sites matching the filter.
func (s *Service) List(ctx context.Context, filter domain.Filter) ([]*domain.Site, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// Get fetches a site by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Site, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies partial updates to a site.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Site, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errors.New("name cannot be empty")
		}
		st.Name = name
	}
	if input.Address != nil {
		st.Address = strings.TrimSpace(*input.Address)
	}
	if input.Description != nil {
		st.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status := domain.Status(strings.TrimSpace(*input.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		st.Status = status
	}
	if input.OrganizationID != nil {
		st.OrganizationID = strings.TrimSpace(*input.OrganizationID)
	}
	if input.DateStart != nil {
		st.DateStart = *input.DateStart
	}
	if input.DateEnd != nil {
		st.DateEnd = input.DateEnd
	}

	st.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a site.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return s.repo.Delete(ctx, id)
}
