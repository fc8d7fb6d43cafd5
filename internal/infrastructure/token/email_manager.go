package token

import (
	"errors"
	"time"

	domain "fleetops/backend/internal/domain/auth"
	"fleetops/backend/internal/usecase/mailverify"

	"github.com/golang-jwt/jwt/v5"
)

// EmailTokenManager issues and validates email-verification JWTs. It signs
// with its own secret: verification tokens and session tokens must never be
// interchangeable.
type EmailTokenManager struct {
	secret     []byte
	expiration time.Duration
}

// NewEmailTokenManager constructs a manager for email-verification tokens.
func NewEmailTokenManager(secret string, expiration time.Duration) *EmailTokenManager {
	return &EmailTokenManager{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Ensure EmailTokenManager implements the verification token port.
var _ mailverify.TokenManager = (*EmailTokenManager)(nil)

// Expiration returns the configured token validity window.
func (m *EmailTokenManager) Expiration() time.Duration {
	return m.expiration
}

type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates a signed token bound to the given email address.
func (m *EmailTokenManager) Issue(email string) (string, error) {
	now := time.Now().UTC()
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates the token and returns the bound email address.
func (m *EmailTokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &emailClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*emailClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Email, nil
}
