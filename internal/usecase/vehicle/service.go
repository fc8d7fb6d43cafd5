package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/vehicle"

	"github.com/google/uuid"
)

// Service encapsulates vehicle use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a vehicle service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for vehicle creation.
type CreateInput struct {
	RegistrationNumber string `json:"registration_number"`
	VIN                string `json:"vin"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	Year               int    `json:"year"`
	Color              string `json:"color"`
	Organization       string `json:"organization"`
	Status             string `json:"status"`
}

// UpdateInput encapsulates partial vehicle updates.
type UpdateInput struct {
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Color        *string `json:"color"`
	Organization *string `json:"organization"`
	Status       *string `json:"status"`
}

// Create stores a new vehicle after validation. The VIN is normalised to
// upper case before persistence.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Vehicle, error) {
	input.RegistrationNumber = strings.TrimSpace(input.RegistrationNumber)
	input.VIN = strings.ToUpper(strings.TrimSpace(input.VIN))
	if input.RegistrationNumber == "" {
		return nil, errors.New("registration number is required")
	}
	if input.VIN == "" {
		return nil, errors.New("VIN is required")
	}
	if input.Brand == "" {
		return nil, errors.New("brand is required")
	}

	status := domain.StatusActive
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		status = domain.Status(trimmed)
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
	}

	now := s.nowFunc().UTC()
	v := &domain.Vehicle{
		ID:                 uuid.NewString(),
		RegistrationNumber: input.RegistrationNumber,
		VIN:                input.VIN,
		Brand:              strings.TrimSpace(input.Brand),
		Model:              strings.TrimSpace(input.Model),
		Year:               input.Year,
		Color:              strings.TrimSpace(input.Color),
		Organization:       strings.TrimSpace(input.Organization),
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List retrieves vehicles matching the filter.
func (s *Service) List(ctx context.Context, filter domain.Filter) ([]*domain.Vehicle, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// Get fetches a vehicle by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies partial updates to a vehicle. Registration number and VIN
// are immutable after creation.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Brand != nil {
		v.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Model != nil {
		v.Model = strings.TrimSpace(*input.Model)
	}
	if input.Year != nil {
		v.Year = *input.Year
	}
	if input.Color != nil {
		v.Color = strings.TrimSpace(*input.Color)
	}
	if input.Organization != nil {
		v.Organization = strings.TrimSpace(*input.Organization)
	}
	if input.Status != nil {
		status := domain.Status(strings.TrimSpace(*input.Status))
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		v.Status = status
	}

	v.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a vehicle.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	return s.repo.Delete(ctx, id)
}
