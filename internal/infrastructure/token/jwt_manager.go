package token

import (
	"errors"
	"time"

	domain "fleetops/backend/internal/domain/auth"
	usecase "fleetops/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates session JWTs.
type JWTManager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTManager constructs a manager with the provided secret and expiration.
func NewJWTManager(secret string, expiration time.Duration, issuer string) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
	}
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// SessionClaims represents session token claims.
type SessionClaims struct {
	Login string   `json:"login"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue creates a signed JWT carrying the user id, login and roles.
func (m *JWTManager) Issue(userID, login string, roles []domain.Role) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Login: login,
		Roles: rolesToStrings(roles),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates the token returning the embedded claims.
// Expired tokens report domain.ErrTokenExpired; every other failure,
// including a bad signature, reports domain.ErrTokenInvalid.
func (m *JWTManager) Verify(tokenString string) (*usecase.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return &usecase.Claims{
		UserID: claims.Subject,
		Login:  claims.Login,
		Roles:  stringsToRoles(claims.Roles),
	}, nil
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func stringsToRoles(values []string) []domain.Role {
	out := make([]domain.Role, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Role(v))
	}
	return out
}
