package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "fleetops/backend/internal/domain/auth"
)

// UserRepository is an in-memory implementation of the user store, used in
// tests and local development. It mirrors the semantics of the PostgreSQL
// repository: unique login and email, OR-matched login-or-email lookup and
// an atomic verification-token consume.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository constructs an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Ensure UserRepository implements the domain port.
var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user, enforcing login and email uniqueness.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Login == user.Login {
			return domain.ErrUserExists
		}
		if user.Email != "" && existing.Email == user.Email {
			return domain.ErrUserExists
		}
	}

	r.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByLoginOrEmail matches the value against the login exactly or the email
// case-insensitively.
func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(loginOrEmail)
	for _, u := range r.users {
		if u.Login == loginOrEmail || (u.Email != "" && u.Email == lowered) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowered := strings.ToLower(email)
	for _, u := range r.users {
		if u.Email != "" && u.Email == lowered {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// List returns users filtered by the provided criteria.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && !domain.HasRole(u.Roles, filter.Role) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// Update modifies the profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.Email != "" {
		for id, other := range r.users {
			if id != user.ID && other.Email == user.Email {
				return domain.ErrUserExists
			}
		}
	}
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.PhoneNumber = user.PhoneNumber
	existing.VerifiedEmail = user.VerifiedEmail
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// UpdatePassword updates the stored password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	return nil
}

// UpdateRoles replaces the user's role set.
func (r *UserRepository) UpdateRoles(ctx context.Context, id string, roles []domain.Role, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = append([]domain.Role(nil), roles...)
	u.UpdatedAt = updatedAt
	return nil
}

// SetVerificationToken overwrites the stored verification token and deadline.
func (r *UserRepository) SetVerificationToken(ctx context.Context, email, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lowered := strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == lowered {
			u.VerificationToken = token
			u.VerificationExpires = expires
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ConsumeVerificationToken flips VerifiedEmail and clears the stored token
// in one step, conditioned on an exact token match and an unexpired
// deadline.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, email, token string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lowered := strings.ToLower(email)
	for _, u := range r.users {
		if u.Email != lowered {
			continue
		}
		if u.VerificationToken == "" || u.VerificationToken != token {
			return nil, domain.ErrUserNotFound
		}
		if !u.VerificationExpires.After(now) {
			return nil, domain.ErrUserNotFound
		}
		u.VerifiedEmail = true
		u.VerificationToken = ""
		u.VerificationExpires = time.Time{}
		u.UpdatedAt = now
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]domain.Role(nil), u.Roles...)
	return &c
}
