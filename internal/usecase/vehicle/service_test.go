package vehicle

import (
	"context"
	"testing"

	domain "fleetops/backend/internal/domain/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	vehicles map[string]*domain.Vehicle
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{vehicles: make(map[string]*domain.Vehicle)}
}

func (r *fakeRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	for _, existing := range r.vehicles {
		if existing.VIN == v.VIN || existing.RegistrationNumber == v.RegistrationNumber {
			return domain.ErrDuplicateRegistration
		}
	}
	clone := *v
	r.vehicles[v.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if v, ok := r.vehicles[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) List(ctx context.Context, filter domain.Filter) ([]*domain.Vehicle, error) {
	var out []*domain.Vehicle
	for _, v := range r.vehicles {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Organization != "" && v.Organization != filter.Organization {
			continue
		}
		clone := *v
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	if _, ok := r.vehicles[v.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *v
	r.vehicles[v.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.vehicles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}

func TestCreateNormalisesVIN(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		RegistrationNumber: "A123BC77",
		VIN:                " wauzzz8v9ka123456 ",
		Brand:              "Audi",
		Model:              "A3",
		Year:               2019,
	})
	require.NoError(t, err)
	assert.Equal(t, "WAUZZZ8V9KA123456", created.VIN)
	assert.Equal(t, domain.StatusActive, created.Status)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{VIN: "X", Brand: "Audi"})
	assert.EqualError(t, err, "registration number is required")

	_, err = svc.Create(ctx, CreateInput{RegistrationNumber: "A123BC77", Brand: "Audi"})
	assert.EqualError(t, err, "VIN is required")

	_, err = svc.Create(ctx, CreateInput{RegistrationNumber: "A123BC77", VIN: "X"})
	assert.EqualError(t, err, "brand is required")

	_, err = svc.Create(ctx, CreateInput{
		RegistrationNumber: "A123BC77",
		VIN:                "X",
		Brand:              "Audi",
		Status:             "scrapped",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateDuplicate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{RegistrationNumber: "A123BC77", VIN: "V1", Brand: "Audi"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{RegistrationNumber: "A123BC77", VIN: "V2", Brand: "BMW"})
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration)
}

func TestUpdateKeepsIdentityFieldsImmutable(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{RegistrationNumber: "A123BC77", VIN: "V1", Brand: "Audi"})
	require.NoError(t, err)

	color := "black"
	status := "repair"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Color: &color, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "black", updated.Color)
	assert.Equal(t, domain.StatusRepair, updated.Status)
	assert.Equal(t, "A123BC77", updated.RegistrationNumber)
	assert.Equal(t, "V1", updated.VIN)
}

func TestListInvalidStatus(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.List(context.Background(), domain.Filter{Status: "scrapped"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
