package site

import "context"

// Repository defines persistence operations for construction sites.
type Repository interface {
	Create(ctx context.Context, s *Site) error
	GetByID(ctx context.Context, id string) (*Site, error)
	List(ctx context.Context, filter Filter) ([]*Site, error)
	Update(ctx context.Context, s *Site) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows site queries.
type Filter struct {
	Status         Status
	OrganizationID string
}
