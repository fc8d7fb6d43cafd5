package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetops/backend/internal/config"
	"fleetops/backend/internal/infrastructure/memory"
	"fleetops/backend/internal/infrastructure/token"
	authusecase "fleetops/backend/internal/usecase/auth"
	"fleetops/backend/internal/usecase/mailverify"
	userusecase "fleetops/backend/internal/usecase/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopMailer struct{}

func (noopMailer) SendVerificationEmail(ctx context.Context, to, verificationLink string) error {
	return nil
}

func newTestServer(t *testing.T) (*Server, *memory.UserRepository) {
	t.Helper()

	cfg := config.Config{
		HTTPPort:        "8080",
		Environment:     "test",
		JWTExpiry:       time.Hour,
		CookieMaxAge:    24 * time.Hour,
		AllowedOrigins:  []string{"*"},
		ReadTimeoutSec:  5,
		WriteTimeoutSec: 5,
		IdleTimeoutSec:  5,
	}

	repo := memory.NewUserRepository()
	sessionTokens := token.NewJWTManager("session-secret", cfg.JWTExpiry, "fleetops-test")
	emailTokens := token.NewEmailTokenManager("email-secret", time.Hour)

	authService := authusecase.NewService(repo, sessionTokens)
	srv := NewServer(cfg, Services{
		Auth:  authService,
		Users: userusecase.NewService(repo),
		Mail:  mailverify.NewService(repo, emailTokens, noopMailer{}, "https://app.example.com"),
	})
	return srv, repo
}

func doJSON(t *testing.T, srv *Server, method, path, body string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func registerAccount(t *testing.T, srv *Server, login, password string, roles ...string) (accessToken string, userID string) {
	t.Helper()
	payload := map[string]any{"login": login, "password": password}
	if len(roles) > 0 {
		payload["roles"] = roles
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/auth/register", string(body), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken, resp.User.ID
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/auth/register",
		`{"login":"jsmith","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookie := sessionCookie(t, rec)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.False(t, cookie.Secure)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	_, leaked := user["password_hash"]
	assert.False(t, leaked)
}

func TestRegisterConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	registerAccount(t, srv, "jsmith", "s3cret-pass")

	rec := doJSON(t, srv, http.MethodPost, "/auth/register",
		`{"login":"jsmith","password":"other-pass"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	registerAccount(t, srv, "jsmith", "s3cret-pass")

	rec := doJSON(t, srv, http.MethodPost, "/auth/login",
		`{"login":"jsmith","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	rec = doJSON(t, srv, http.MethodPost, "/auth/login",
		`{"login":"jsmith","password":"wrong-pass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/auth/login",
		`{"login":"nobody","password":"s3cret-pass"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthMiddlewareTokenSources(t *testing.T) {
	srv, _ := newTestServer(t)
	sessionToken, _ := registerAccount(t, srv, "jsmith", "s3cret-pass")

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sessionToken)
		})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("cookie only", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/me", "", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionToken})
		})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("malformed header does not fall back to cookie", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
			r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionToken})
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/users/me", "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sessionToken+"x")
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUsersAllRequiresAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	userToken, _ := registerAccount(t, srv, "plain", "s3cret-pass")
	adminToken, _ := registerAccount(t, srv, "boss", "s3cret-pass", "admin")

	rec := doJSON(t, srv, http.MethodGet, "/users/all", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+userToken)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/users/all", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+adminToken)
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	rec = doJSON(t, srv, http.MethodGet, "/users/all?role=bogus", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+adminToken)
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserByIDScoping(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceToken, aliceID := registerAccount(t, srv, "alice", "s3cret-pass")
	_, bobID := registerAccount(t, srv, "bob", "s3cret-pass")
	adminToken, adminID := registerAccount(t, srv, "boss", "s3cret-pass", "admin")

	t.Run("self update allowed", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPatch, "/users/"+aliceID,
			`{"first_name":"Alice"}`, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+aliceToken)
			})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("cross update forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPatch, "/users/"+bobID,
			`{"first_name":"X"}`, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+aliceToken)
			})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role change by non-admin forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPatch, "/users/"+aliceID,
			`{"roles":["admin"]}`, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+aliceToken)
			})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin role change on own record forbidden", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPatch, "/users/"+adminID,
			`{"roles":["user"]}`, func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+adminToken)
			})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("self delete forbidden even for admin", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/users/"+adminID, "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+adminToken)
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin deletes another user", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/users/"+bobID, "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+adminToken)
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, srv, http.MethodGet, "/users/"+bobID, "", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+adminToken)
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	sessionToken, _ := registerAccount(t, srv, "jsmith", "s3cret-pass")

	rec := doJSON(t, srv, http.MethodPost, "/users/change-password",
		`{"current_password":"wrong","new_password":"next-pass"}`, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sessionToken)
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/users/change-password",
		`{"current_password":"s3cret-pass","new_password":"next-pass"}`, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+sessionToken)
		})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/auth/login",
		`{"login":"jsmith","password":"next-pass"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmailVerificationEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/auth/register",
		`{"login":"jsmith","email":"jsmith@example.com","password":"s3cret-pass"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = doJSON(t, srv, http.MethodPost, "/mail/send-verification/me", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+registered.AccessToken)
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.GetByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.VerificationToken)

	rec = doJSON(t, srv, http.MethodGet, "/mail/verify?token="+stored.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var verified struct {
		User struct {
			Verified bool `json:"verified"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.True(t, verified.User.Verified)

	// Second consume of the same token is refused.
	rec = doJSON(t, srv, http.MethodGet, "/mail/verify?token="+stored.VerificationToken, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/mail/verify?token=garbage", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
