package vehicle

import "context"

// Repository defines persistence operations for vehicles.
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context, filter Filter) ([]*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id string) error
}

// Filter narrows vehicle queries.
type Filter struct {
	Status       Status
	Organization string
}
