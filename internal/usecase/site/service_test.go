package site

import (
	"context"
	"testing"
	"time"

	domain "fleetops/backend/internal/domain/site"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	sites map[string]*domain.Site
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sites: make(map[string]*domain.Site)}
}

func (r *fakeRepo) Create(ctx context.Context, s *domain.Site) error {
	for _, existing := range r.sites {
		if existing.Name == s.Name {
			return domain.ErrDuplicateName
		}
	}
	clone := *s
	r.sites[s.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	if s, ok := r.sites[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) List(ctx context.Context, filter domain.Filter) ([]*domain.Site, error) {
	var out []*domain.Site
	for _, s := range r.sites {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.OrganizationID != "" && s.OrganizationID != filter.OrganizationID {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, s *domain.Site) error {
	if _, ok := r.sites[s.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *s
	r.sites[s.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.sites[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sites, id)
	return nil
}

func TestCreate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreateInput{
		Name:      "North Quarter",
		Address:   "Builders st. 1",
		Status:    "planned",
		DateStart: start,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, created.Status)
	assert.Equal(t, start, created.DateStart)
	assert.Nil(t, created.DateEnd)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, CreateInput{Address: "Builders st. 1", DateStart: start})
	assert.EqualError(t, err, "name is required")

	_, err = svc.Create(ctx, CreateInput{Name: "North Quarter", DateStart: start})
	assert.EqualError(t, err, "address is required")

	_, err = svc.Create(ctx, CreateInput{Name: "North Quarter", Address: "Builders st. 1"})
	assert.EqualError(t, err, "start date is required")

	_, err = svc.Create(ctx, CreateInput{
		Name:      "North Quarter",
		Address:   "Builders st. 1",
		DateStart: start,
		Status:    "demolished",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:      "North Quarter",
		Address:   "Builders st. 1",
		DateStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	status := "completed"
	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Status: &status, DateEnd: &end})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.DateEnd)
	assert.Equal(t, end, *updated.DateEnd)
}

func TestListByOrganization(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, CreateInput{Name: "A", Address: "addr", DateStart: start, OrganizationID: "org-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "B", Address: "addr", DateStart: start, OrganizationID: "org-2"})
	require.NoError(t, err)

	got, err := svc.List(ctx, domain.Filter{OrganizationID: "org-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)

	_, err = svc.List(ctx, domain.Filter{Status: "demolished"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
