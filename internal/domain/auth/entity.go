package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. Unknown identity and
	// wrong password both surface as this error so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrUserExists signals a duplicate login or email at registration.
	ErrUserExists = errors.New("login or email already registered")
	// ErrTokenInvalid means a supplied token cannot be validated.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired means a token was once valid but its lifetime has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrUserNotFound indicates a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden indicates an authenticated caller without sufficient rights.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidRole indicates an unsupported role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidState indicates the operation is not valid for the record's
	// current lifecycle state, e.g. verifying an already-verified email.
	ErrInvalidState = errors.New("operation not valid for current state")
	// ErrInvalidVerificationToken covers every email-verification failure:
	// malformed, expired, replayed and overwritten tokens all map here so the
	// response never reveals whether the email exists.
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	// ErrPasswordMismatch indicates the current password is incorrect.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrPasswordUnchanged indicates the new password matches the current one.
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
)

// Role identifies a privilege tag attached to a user. Authorization is
// OR-matched: an operation's required roles succeed if any one of them is
// held by the principal.
type Role string

const (
	// RoleUser represents a standard application user.
	RoleUser Role = "user"
	// RoleAdmin represents an administrative user.
	RoleAdmin Role = "admin"
	// RoleModerator represents a moderation user.
	RoleModerator Role = "moderator"
)

// ValidRole reports whether the role is one of the supported tags.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// HasRole reports whether the role set contains the given role.
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User models the authentication entity persisted in storage. PasswordHash,
// VerificationToken and VerificationExpires never leave the persistence
// boundary in API responses.
type User struct {
	ID                  string    `json:"id"`
	Login               string    `json:"login"`
	Email               string    `json:"email,omitempty"`
	FirstName           string    `json:"first_name,omitempty"`
	LastName            string    `json:"last_name,omitempty"`
	PhoneNumber         string    `json:"phone_number,omitempty"`
	Roles               []Role    `json:"roles"`
	VerifiedEmail       bool      `json:"verified_email"`
	PasswordHash        string    `json:"-"`
	VerificationToken   string    `json:"-"`
	VerificationExpires time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Credentials captures raw credential input for login. LoginOrEmail matches
// either the login (exact, case-sensitive) or the email (lowercased).
type Credentials struct {
	LoginOrEmail string
	Password     string
}
