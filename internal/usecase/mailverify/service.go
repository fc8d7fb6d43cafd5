package mailverify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	domain "fleetops/backend/internal/domain/auth"
)

// TokenManager abstracts email-verification token issuance and validation.
// Verification tokens are signed with their own secret, distinct from the
// session secret.
type TokenManager interface {
	Issue(email string) (string, error)
	Verify(token string) (string, error)
	Expiration() time.Duration
}

// Mailer dispatches verification messages. Delivery is fire-and-forget from
// this service's perspective: failures surface once and are not retried.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, verificationLink string) error
}

// Service drives the email-verification flow: issuing single-use tokens and
// consuming them exactly once.
type Service struct {
	users       domain.UserRepository
	tokens      TokenManager
	mailer      Mailer
	frontendURL string
	nowFunc     func() time.Time
}

// NewService constructs the verification flow.
func NewService(users domain.UserRepository, tokens TokenManager, mailer Mailer, frontendURL string) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		nowFunc:     time.Now,
	}
}

// Issue generates a fresh verification token for the user's email, stores it
// on the record (overwriting any previous token) and dispatches the link.
// Returns the address the message was sent to.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Email == "" {
		return "", domain.ErrInvalidState
	}
	if user.VerifiedEmail {
		return "", domain.ErrInvalidState
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", err
	}

	expires := s.nowFunc().UTC().Add(s.tokens.Expiration())
	if err := s.users.SetVerificationToken(ctx, user.Email, token, expires); err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, url.QueryEscape(token))
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, link); err != nil {
		return "", err
	}

	return user.Email, nil
}

// Consume validates the token and marks the email verified, clearing the
// stored token in the same update so it can never be consumed twice. Every
// failure cause maps to the same error so the response never reveals whether
// the email exists.
func (s *Service) Consume(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidVerificationToken
	}

	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidVerificationToken
	}

	user, err := s.users.ConsumeVerificationToken(ctx, email, token, s.nowFunc().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidVerificationToken
		}
		return nil, err
	}

	return user, nil
}
