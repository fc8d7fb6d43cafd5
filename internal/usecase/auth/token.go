package auth

import domain "fleetops/backend/internal/domain/auth"

// Claims is the decoded payload of a session token.
//
// Roles reflect the user's roles at issuance time. If an administrator
// changes a user's roles the change is not visible to already-issued tokens
// until they expire; the staleness window equals the configured token
// lifetime.
type Claims struct {
	UserID string
	Login  string
	Roles  []domain.Role
}

// TokenManager abstracts session token issuance and verification.
// Verify reports domain.ErrTokenExpired for tokens past their deadline and
// domain.ErrTokenInvalid for everything else, so callers can tell a stale
// session apart from a forged one.
type TokenManager interface {
	Issue(userID, login string, roles []domain.Role) (string, error)
	Verify(token string) (*Claims, error)
}
