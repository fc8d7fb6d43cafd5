package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/driver"

	"github.com/google/uuid"
)

// Service encapsulates driver use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a driver service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for driver creation.
type CreateInput struct {
	FullName        string    `json:"full_name"`
	LicenseNumber   string    `json:"license_number"`
	LicenseCategory string    `json:"license_category"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Organization    string    `json:"organization"`
	Status          string    `json:"status"`
}

// UpdateInput encapsulates partial driver updates.
type UpdateInput struct {
	FullName        *string    `json:"full_name"`
	LicenseCategory *string    `json:"license_category"`
	LicenseExpiry   *time.Time `json:"license_expiry"`
	Phone           *string    `json:"phone"`
	Email           *string    `json:"email"`
	Organization    *string    `json:"organization"`
	Status          *string    `json:"status"`
}

// Create stores a new driver after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Driver, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.LicenseNumber = strings.TrimSpace(input.LicenseNumber)
	if input.FullName == "" {
		return nil, errors.New("full name is required")
	}
	if input.LicenseNumber == "" {
		return nil, errors.New("license number is required")
	}

	status := domain.StatusActive
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		status = domain.Status(trimmed)
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
	}

	now := s.nowFunc().UTC()
	d := &domain.Driver{
		ID:              uuid.NewString(),
		FullName:        input.FullName,
		LicenseNumber:   input.LicenseNumber,
		LicenseCategory: strings.TrimSpace(input.LicenseCategory),
		LicenseExpiry:   input.LicenseExpiry,
		Phone:           strings.TrimSpace(input.Phone),
		Email:           strings.TrimSpace(strings.ToLower(input.Email)),
		Organization:    strings.TrimSpace(input.Organization),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List retrieves drivers matching the filter.
func (s *Service) List(ctx context.Context, filter domain.Filter) ([]*domain.Driver, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// Get fetches a driver by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Driver, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies partial updates to a driver.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Driver, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, errors.New("full name cannot be empty")
		}
		d.FullName = name
	}
	if input.LicenseCategory != nil {
		d.LicenseCategory = strings.TrimSpace(*input.LicenseCategory)
	}
	if input.LicenseExpiry != nil {
		d.LicenseExpiry = *input.LicenseExpiry
	}
	if input.Phone != nil {
		d.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		d.Email = strings.TrimSpace(strings.ToLower(*input.Email))
	}
	if input.Organization != nil {
		d.Organization = strings.TrimSpace(*input.Organization)
	}
	if input.Status != nil {
		status := domain.Status(strings.TrimSpace(*input.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		d.Status = status
	}

	d.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a driver.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return s.repo.Delete(ctx, id)
}
