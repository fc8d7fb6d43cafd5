package organization

import "context"

// Repository defines persistence operations for organizations.
type Repository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, error)
	Update(ctx context.Context, o *Organization) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows organization queries.
type Filter struct {
	ActiveOnly bool
}
