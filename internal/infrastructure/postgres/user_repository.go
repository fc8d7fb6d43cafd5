package postgres

import (
	"context"
	"errors"
	"time"

	domain "fleetops/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
id, login, email, first_name, last_name, phone_number, roles, verified_email,
password_hash, verification_token, verification_expires, created_at, updated_at
`

// UserRepository persists users in PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Ensure UserRepository implements the domain port.
var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
INSERT INTO users (id, login, email, first_name, last_name, phone_number, roles,
                   verified_email, password_hash, verification_token, verification_expires,
                   created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Login,
		nullIfEmpty(user.Email),
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		rolesToStrings(user.Roles),
		user.VerifiedEmail,
		user.PasswordHash,
		user.VerificationToken,
		user.VerificationExpires,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByLoginOrEmail matches the value against the login column exactly or the
// email column case-insensitively, in a single OR query.
func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = lower($1)`
	return r.getOne(ctx, query, loginOrEmail)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return r.getOne(ctx, query, email)
}

// List returns users filtered by the provided criteria.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users `
	var args []any
	if filter.Role != "" {
		query += `WHERE $1 = ANY(roles) `
		args = append(args, string(filter.Role))
	}
	query += `ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update modifies the profile fields of an existing user record.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
UPDATE users
SET email = $2, first_name = $3, last_name = $4, phone_number = $5,
    verified_email = $6, updated_at = $7
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query,
		user.ID,
		nullIfEmpty(user.Email),
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.VerifiedEmail,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword updates the stored password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `
UPDATE users
SET password_hash = $2, updated_at = $3
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateRoles replaces the user's role set.
func (r *UserRepository) UpdateRoles(ctx context.Context, id string, roles []domain.Role, updatedAt time.Time) error {
	const query = `
UPDATE users
SET roles = $2, updated_at = $3
WHERE id = $1
`
	ct, err := r.pool.Exec(ctx, query, id, rolesToStrings(roles), updatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetVerificationToken stores a fresh verification token and deadline on the
// user owning the email, overwriting any previous token.
func (r *UserRepository) SetVerificationToken(ctx context.Context, email, token string, expires time.Time) error {
	const query = `
UPDATE users
SET verification_token = $2, verification_expires = $3
WHERE email = lower($1)
`
	ct, err := r.pool.Exec(ctx, query, email, token, expires)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ConsumeVerificationToken flips verified_email and clears the stored token
// in a single update, conditioned on an exact token match and an unexpired
// stored deadline. The single-statement form makes the consume atomic: a
// second call with the same token matches zero rows.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, email, token string, now time.Time) (*domain.User, error) {
	query := `
UPDATE users
SET verified_email = TRUE, verification_token = '', verification_expires = 'epoch', updated_at = $4
WHERE email = lower($1) AND verification_token = $2 AND verification_token <> ''
      AND verification_expires > $3
RETURNING ` + userColumns
	row := r.pool.QueryRow(ctx, query, email, token, now, now)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u     domain.User
		email *string
		roles []string
	)
	err := row.Scan(
		&u.ID,
		&u.Login,
		&email,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&roles,
		&u.VerifiedEmail,
		&u.PasswordHash,
		&u.VerificationToken,
		&u.VerificationExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	u.Roles = make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, domain.Role(r))
	}
	return &u, nil
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
