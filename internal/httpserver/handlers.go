package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	authdomain "fleetops/backend/internal/domain/auth"
	authusecase "fleetops/backend/internal/usecase/auth"
	userusecase "fleetops/backend/internal/usecase/user"
)

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/auth/register", http.HandlerFunc(s.handleRegister))
	s.router.Handle("/auth/login", http.HandlerFunc(s.handleLogin))
	s.router.Handle("/auth/logout", http.HandlerFunc(s.handleLogout))
	s.router.Handle("/mail/verify", http.HandlerFunc(s.handleMailVerify))

	authenticated := s.authMiddleware
	s.router.Handle("/users/me", authenticated(http.HandlerFunc(s.handleUsersMe)))
	s.router.Handle("/users/all", authenticated(http.HandlerFunc(s.handleUsersAll)))
	s.router.Handle("/users/change-password", authenticated(http.HandlerFunc(s.handleChangePassword)))
	s.router.Handle("/users/", authenticated(http.HandlerFunc(s.handleUserByID)))
	s.router.Handle("/mail/send-verification/me", authenticated(http.HandlerFunc(s.handleSendVerification)))

	s.router.Handle("/drivers", authenticated(http.HandlerFunc(s.handleDrivers)))
	s.router.Handle("/drivers/", authenticated(http.HandlerFunc(s.handleDriverByID)))
	s.router.Handle("/vehicles", authenticated(http.HandlerFunc(s.handleVehicles)))
	s.router.Handle("/vehicles/", authenticated(http.HandlerFunc(s.handleVehicleByID)))
	s.router.Handle("/organizations", authenticated(http.HandlerFunc(s.handleOrganizations)))
	s.router.Handle("/organizations/", authenticated(http.HandlerFunc(s.handleOrganizationByID)))
	s.router.Handle("/sites", authenticated(http.HandlerFunc(s.handleSites)))
	s.router.Handle("/sites/", authenticated(http.HandlerFunc(s.handleSiteByID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Login       string            `json:"login"`
		Email       string            `json:"email"`
		Password    string            `json:"password"`
		FirstName   string            `json:"first_name"`
		LastName    string            `json:"last_name"`
		PhoneNumber string            `json:"phone_number"`
		Roles       []authdomain.Role `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	session, err := s.authService.Register(r.Context(), authusecase.RegisterInput{
		Login:       payload.Login,
		Email:       payload.Email,
		Password:    payload.Password,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
		Roles:       payload.Roles,
	})
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrUserExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, authdomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.setAuthCookie(w, session.Token)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"access_token": session.Token,
		"user":         session.User,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	session, err := s.authService.Login(r.Context(), authdomain.Credentials{
		LoginOrEmail: payload.Login,
		Password:     payload.Password,
	})
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid login or password")
		} else {
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	s.setAuthCookie(w, session.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"access_token": session.Token,
		"user":         session.User,
	})
}

// handleLogout clears the session cookie. A bearer token already handed out
// stays valid until it expires; there is no server-side revocation store.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	principal, ok := currentPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, principal.User)
}

func (s *Server) handleUsersAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}

	users, err := s.userService.List(r.Context(), userusecase.Filter{
		Role: r.URL.Query().Get("role"),
	})
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidRole) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	principal, ok := currentPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "current_password and new_password required")
		} else {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
		}
		return
	}

	err := s.authService.ChangePassword(r.Context(), principal.User.ID, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrPasswordMismatch):
			writeError(w, http.StatusBadRequest, "current password is incorrect")
		case errors.Is(err, authdomain.ErrPasswordUnchanged):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, authdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "user id required")
		return
	}

	principal, ok := currentPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	actor := userusecase.Actor{ID: principal.Claims.UserID, Roles: principal.Claims.Roles}

	switch r.Method {
	case http.MethodGet:
		user, err := s.userService.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, authdomain.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodPut, http.MethodPatch:
		var payload struct {
			Email       *string            `json:"email"`
			FirstName   *string            `json:"first_name"`
			LastName    *string            `json:"last_name"`
			PhoneNumber *string            `json:"phone_number"`
			Roles       *[]authdomain.Role `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			if errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, "update payload required")
			} else {
				writeError(w, http.StatusBadRequest, "invalid JSON payload")
			}
			return
		}

		user, err := s.userService.Update(r.Context(), actor, id, userusecase.UpdateInput{
			Email:       payload.Email,
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			PhoneNumber: payload.PhoneNumber,
			Roles:       payload.Roles,
		})
		if err != nil {
			switch {
			case errors.Is(err, authdomain.ErrForbidden):
				writeError(w, http.StatusForbidden, err.Error())
			case errors.Is(err, authdomain.ErrUserNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, authdomain.ErrUserExists):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, authdomain.ErrInvalidRole):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, user)
	case http.MethodDelete:
		if err := s.userService.Delete(r.Context(), actor, id); err != nil {
			switch {
			case errors.Is(err, authdomain.ErrForbidden):
				writeError(w, http.StatusForbidden, err.Error())
			case errors.Is(err, authdomain.ErrUserNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleSendVerification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	principal, ok := currentPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	email, err := s.mailService.Issue(r.Context(), principal.User.ID)
	if err != nil {
		switch {
		case errors.Is(err, authdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, authdomain.ErrInvalidState):
			writeError(w, http.StatusBadRequest, "email is missing or already verified")
		default:
			writeError(w, http.StatusInternalServerError, "failed to send verification email")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "verification email sent to " + email,
	})
}

func (s *Server) handleMailVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	user, err := s.mailService.Consume(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidVerificationToken) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "email verification failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"email":    user.Email,
			"verified": user.VerifiedEmail,
		},
	})
}
