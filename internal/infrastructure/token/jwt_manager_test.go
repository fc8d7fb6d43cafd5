package token

import (
	"errors"
	"testing"
	"time"

	domain "fleetops/backend/internal/domain/auth"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("session-secret", time.Hour, "fleetops")

	signed, err := m.Issue("user-1", "jsmith", []domain.Role{domain.RoleUser, domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if signed == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Login != "jsmith" {
		t.Errorf("Login = %q, want %q", claims.Login, "jsmith")
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != domain.RoleUser || claims.Roles[1] != domain.RoleAdmin {
		t.Errorf("Roles = %v, want [user admin]", claims.Roles)
	}
}

func TestJWTManagerExpired(t *testing.T) {
	m := NewJWTManager("session-secret", -time.Minute, "fleetops")

	signed, err := m.Issue("user-1", "jsmith", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = m.Verify(signed)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTManagerWrongSecret(t *testing.T) {
	issuer := NewJWTManager("session-secret", time.Hour, "fleetops")
	verifier := NewJWTManager("other-secret", time.Hour, "fleetops")

	signed, err := issuer.Issue("user-1", "jsmith", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = verifier.Verify(signed)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestJWTManagerMalformed(t *testing.T) {
	m := NewJWTManager("session-secret", time.Hour, "fleetops")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestSessionAndEmailTokensNotInterchangeable(t *testing.T) {
	session := NewJWTManager("session-secret", time.Hour, "fleetops")
	email := NewEmailTokenManager("email-secret", time.Hour)

	sessionToken, err := session.Issue("user-1", "jsmith", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("session Issue() error = %v", err)
	}
	if _, err := email.Verify(sessionToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("email Verify(session token) error = %v, want ErrTokenInvalid", err)
	}

	emailToken, err := email.Issue("user@example.com")
	if err != nil {
		t.Fatalf("email Issue() error = %v", err)
	}
	if _, err := session.Verify(emailToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("session Verify(email token) error = %v, want ErrTokenInvalid", err)
	}
}
