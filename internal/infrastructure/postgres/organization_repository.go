package postgres

import (
	"context"
	"errors"

	domain "fleetops/backend/internal/domain/organization"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganizationRepository persists organizations in PostgreSQL.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository constructs a repository.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

var _ domain.Repository = (*OrganizationRepository)(nil)

// Create inserts a new organization record.
func (r *OrganizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	const query = `
INSERT INTO organizations (id, name, inn, ogrn, legal_form, address, phone, email,
                           director, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.Name,
		o.INN,
		o.OGRN,
		o.LegalForm,
		o.Address,
		o.Phone,
		o.Email,
		o.Director,
		o.IsActive,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID fetches an organization by id.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const query = `
SELECT id, name, inn, ogrn, legal_form, address, phone, email, director,
       is_active, created_at, updated_at
FROM organizations WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	o, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// List returns organizations filtered by the provided criteria.
func (r *OrganizationRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Organization, error) {
	query := `
SELECT id, name, inn, ogrn, legal_form, address, phone, email, director,
       is_active, created_at, updated_at
FROM organizations
`
	if filter.ActiveOnly {
		query += "WHERE is_active "
	}
	query += "ORDER BY name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update modifies an existing organization record.
func (r *OrganizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	const query = `
UPDATE organizations
SET name = $2, legal_form = $3, address = $4, phone = $5, email = $6,
    director = $7, is_active = $8, updated_at = $9
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		o.ID,
		o.Name,
		o.LegalForm,
		o.Address,
		o.Phone,
		o.Email,
		o.Director,
		o.IsActive,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an organization by id.
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM organizations WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var o domain.Organization
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.INN,
		&o.OGRN,
		&o.LegalForm,
		&o.Address,
		&o.Phone,
		&o.Email,
		&o.Director,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
