package postgres

import (
	"context"
	"errors"

	domain "fleetops/backend/internal/domain/driver"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DriverRepository persists drivers in PostgreSQL.
type DriverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository constructs a repository.
func NewDriverRepository(pool *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{pool: pool}
}

var _ domain.Repository = (*DriverRepository)(nil)

// Create inserts a new driver record.
func (r *DriverRepository) Create(ctx context.Context, d *domain.Driver) error {
	const query = `
INSERT INTO drivers (id, full_name, license_number, license_category, license_expiry,
                     phone, email, organization, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.FullName,
		d.LicenseNumber,
		d.LicenseCategory,
		d.LicenseExpiry,
		d.Phone,
		d.Email,
		d.Organization,
		d.Status,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLicense
		}
		return err
	}
	return nil
}

// GetByID fetches a driver by id.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	const query = `
SELECT id, full_name, license_number, license_category, license_expiry,
       phone, email, organization, status, created_at, updated_at
FROM drivers WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	d, err := scanDriver(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns drivers filtered by the provided criteria.
func (r *DriverRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Driver, error) {
	query := `
SELECT id, full_name, license_number, license_category, license_expiry,
       phone, email, organization, status, created_at, updated_at
FROM drivers
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

	var drivers []*domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drivers, nil
}

// Update modifies an existing driver record.
func (r *DriverRepository) Update(ctx context.Context, d *domain.Driver) error {
	const query = `
UPDATE drivers
SET full_name = $2, license_category = $3, license_expiry = $4, phone = $5,
    email = $6, organization = $7, status = $8, updated_at = $9
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		d.ID,
		d.FullName,
		d.LicenseCategory,
		d.LicenseExpiry,
		d.Phone,
		d.Email,
		d.Organization,
		d.Status,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a driver by id.
func (r *DriverRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM drivers WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (*domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.LicenseNumber,
		&d.LicenseCategory,
		&d.LicenseExpiry,
		&d.Phone,
		&d.Email,
		&d.Organization,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
