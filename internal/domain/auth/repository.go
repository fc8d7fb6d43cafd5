package auth

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for auth users. Lookups
// return ErrUserNotFound on absence rather than a nil user.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByLoginOrEmail matches a single value against either the login
	// column or the email column in one OR query.
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	// Update persists profile fields (email, names, phone). Roles and
	// password travel through their own dedicated methods.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	UpdateRoles(ctx context.Context, id string, roles []Role, updatedAt time.Time) error
	// SetVerificationToken stores a fresh email-verification token and its
	// deadline on the user owning the email, overwriting any previous one.
	SetVerificationToken(ctx context.Context, email, token string, expires time.Time) error
	// ConsumeVerificationToken atomically flips VerifiedEmail and clears the
	// stored token in one update, provided the stored token equals the
	// presented one and its deadline is after now. Returns ErrUserNotFound
	// when no record matches all three conditions.
	ConsumeVerificationToken(ctx context.Context, email, token string, now time.Time) (*User, error)
}

// UserFilter allows narrowing user queries.
type UserFilter struct {
	Role Role
}
