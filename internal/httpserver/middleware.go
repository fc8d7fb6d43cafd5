package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	domain "fleetops/backend/internal/domain/auth"
	authusecase "fleetops/backend/internal/usecase/auth"
)

// sessionCookieName is the cookie carrying the session token for browser
// clients. Non-cookie clients send the same token as a bearer header.
const sessionCookieName = "access_token"

type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, status, recorder.size, duration)
	})
}

func withCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && isOriginAllowed(origin, allowedOrigins) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		} else if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isOriginAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" {
			return true
		}
		if strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

// authMiddleware gates protected routes. It resolves the session token,
// verifies it and attaches the principal to the request context; requests
// without a valid token are rejected before any handler logic runs.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "authorization token required")
			return
		}

		principal, err := s.authService.VerifyToken(r.Context(), token)
		if err != nil {
			// Expired and forged tokens are deliberately indistinguishable
			// to the client.
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyPrincipal{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestToken resolves the session token for a request. The Authorization
// header takes priority; the cookie is consulted only when the header is
// absent. The two sources are never merged.
func requestToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return extractBearerToken(header)
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

type ctxKeyPrincipal struct{}

func currentPrincipal(ctx context.Context) (*authusecase.Principal, bool) {
	principal, ok := ctx.Value(ctxKeyPrincipal{}).(*authusecase.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}

// requireRoles enforces OR-matched role membership: the request proceeds if
// the principal's token carries at least one of the required roles.
func (s *Server) requireRoles(w http.ResponseWriter, r *http.Request, required ...domain.Role) (*authusecase.Principal, bool) {
	principal, ok := currentPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	for _, role := range required {
		if domain.HasRole(principal.Claims.Roles, role) {
			return principal, true
		}
	}
	writeError(w, http.StatusForbidden, "insufficient privileges")
	return nil, false
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (*authusecase.Principal, bool) {
	return s.requireRoles(w, r, domain.RoleAdmin)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
