package driver

import "context"

// Repository defines persistence operations for drivers.
type Repository interface {
	Create(ctx context.Context, d *Driver) error
	GetByID(ctx context.Context, id string) (*Driver, error)
	List(ctx context.Context, filter Filter) ([]*Driver, error)
	Update(ctx context.Context, d *Driver) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows driver queries.
type Filter struct {
	Status       Status
	Organization string
}
