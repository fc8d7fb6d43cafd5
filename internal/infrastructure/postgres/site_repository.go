package postgres

import (
	"context"
	"errors"

	domain "fleetops/backend/internal/domain/site"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SiteRepository persists construction sites in PostgreSQL.
type SiteRepository struct {
	pool *pgxpool.Pool
}

// NewSiteRepository constructs a repository.
func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

var _ domain.Repository = (*SiteRepository)(nil)

// Create inserts a new site record.
func (r *SiteRepository) Create(ctx context.Context, s *domain.Site) error {
	const query = `
INSERT INTO construction_sites (id, name, address, description, status, organization_id,
                                date_start, date_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Address,
		s.Description,
		s.Status,
		s.OrganizationID,
		s.DateStart,
		s.DateEnd,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return err
	}
	return nil
}

// GetByID fetches a site by id.
func (r *SiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	const query = `
SELECT id, name, address, description, status, organization_id,
       date_start, date_end, created_at, updated_at
FROM construction_sites WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	s, err := scanSite(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List returns sites filtered by the provided criteria.
func (r *SiteRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Site, error) {
	query := `
SELECT id, name, address, description, status, organization_id,
       date_start, date_end, created_at, updated_at
FROM construction_sites
`
	var (
		args  []any
		where []string
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $1")
	}
	if filter.OrganizationID != "" {
		args = append(args, filter.OrganizationID)
		if len(args) == 1 {
			where = append(where, "organization_id = $1")
		} else {
			where = append(where, "organization_id = $2")
		}
	}
	if len(where) > 0 {
		query += "WHERE " + where[0]
		if len(where) > 1 {
			query += " AND " + where[1]
		}
		query += " "
	}
	query += "ORDER BY date_start DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// Update modifies an existing site record.
func (r *SiteRepository) Update(ctx context.Context, s *domain.Site) error {
	const query = `
UPDATE construction_sites
SET name = $2, address = $3, description = $4, status = $5, organization_id = $6,
    date_start = $7, date_end = $8, updated_at = $9
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Address,
		s.Description,
		s.Status,
		s.OrganizationID,
		s.DateStart,
		s.DateEnd,
		s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a site by id.
func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM construction_sites WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSite(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Address,
		&s.Description,
		&s.Status,
		&s.OrganizationID,
		&s.DateStart,
		&s.DateEnd,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
