package postgres

import (
	"context"
	"errors"

	domain "fleetops/backend/internal/domain/vehicle"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VehicleRepository persists vehicles in PostgreSQL.
type VehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository constructs a repository.
func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

var _ domain.Repository = (*VehicleRepository)(nil)

// Create inserts a new vehicle record.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	const query = `
INSERT INTO vehicles (id, registration_number, vin, brand, model, year, color,
                      organization, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.RegistrationNumber,
		v.VIN,
		v.Brand,
		v.Model,
		v.Year,
		v.Color,
		v.Organization,
		v.Status,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

// GetByID fetches a vehicle by id.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	const query = `
SELECT id, registration_number, vin, brand, model, year, color,
       organization, status, created_at, updated_at
FROM vehicles WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// List returns vehicles filtered by the provided criteria.
func (r *VehicleRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Vehicle, error) {
	query := `
SELECT id, registration_number, vin, brand, model, year, color,
       organization, status, created_at, updated_at
FROM vehicles
`
	var (
		args  []any
		where []string
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $1")
	}
	if filter.Organization != "" {
		args = append(args, filter.Organization)
		if len(args) == 1 {
			where = append(where, "organization = $1")
		} else {
			where = append(where, "organization = $2")
		}
	}
	if len(where) > 0 {
		query += "WHERE " + where[0]
		if len(where) > 1 {
			query += " AND " + where[1]
		}
		query += " "
	}
	query += "ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Update modifies an existing vehicle record.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	const query = `
UPDATE vehicles
SET brand = $2, model = $3, year = $4, color = $5, organization = $6,
    status = $7, updated_at = $8
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Brand,
		v.Model,
		v.Year,
		v.Color,
		v.Organization,
		v.Status,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a vehicle by id.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM vehicles WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID,
		&v.RegistrationNumber,
		&v.VIN,
		&v.Brand,
		&v.Model,
		&v.Year,
		&v.Color,
		&v.Organization,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
