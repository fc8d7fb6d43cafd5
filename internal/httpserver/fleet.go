package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	driverdomain "fleetops/backend/internal/domain/driver"
	orgdomain "fleetops/backend/internal/domain/organization"
	sitedomain "fleetops/backend/internal/domain/site"
	vehicledomain "fleetops/backend/internal/domain/vehicle"
	driverusecase "fleetops/backend/internal/usecase/driver"
	orgusecase "fleetops/backend/internal/usecase/organization"
	siteusecase "fleetops/backend/internal/usecase/site"
	vehicleusecase "fleetops/backend/internal/usecase/vehicle"
)

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		filter := driverdomain.Filter{
			Status:       driverdomain.Status(r.URL.Query().Get("status")),
			Organization: r.URL.Query().Get("organization"),
		}
		items, err := s.driverService.List(ctx, filter)
		if err != nil {
			if errors.Is(err, driverdomain.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, err.Error())
			} else {
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var payload driverusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.driverService.Create(ctx, payload)
		if err != nil {
			if errors.Is(err, driverdomain.ErrDuplicateLicense) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleDriverByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/drivers/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "driver id required")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		item, err := s.driverService.Get(ctx, id)
		if err != nil {
			writeDomainError(w, err, driverdomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut, http.MethodPatch:
		var payload driverusecase.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.driverService.Update(ctx, id, payload)
		if err != nil {
			writeDomainError(w, err, driverdomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.driverService.Delete(ctx, id); err != nil {
			writeDomainError(w, err, driverdomain.ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		filter := vehicledomain.Filter{
			Status:       vehicledomain.Status(r.URL.Query().Get("status")),
			Organization: r.URL.Query().Get("organization"),
		}
		items, err := s.vehicleService.List(ctx, filter)
		if err != nil {
			if errors.Is(err, vehicledomain.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, err.Error())
			} else {
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var payload vehicleusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.vehicleService.Create(ctx, payload)
		if err != nil {
			if errors.Is(err, vehicledomain.ErrDuplicateRegistration) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleVehicleByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/vehicles/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "vehicle id required")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		item, err := s.vehicleService.Get(ctx, id)
		if err != nil {
			writeDomainError(w, err, vehicledomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut, http.MethodPatch:
		var payload vehicleusecase.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.vehicleService.Update(ctx, id, payload)
		if err != nil {
			writeDomainError(w, err, vehicledomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.vehicleService.Delete(ctx, id); err != nil {
			writeDomainError(w, err, vehicledomain.ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		filter := orgdomain.Filter{
			ActiveOnly: r.URL.Query().Get("active") == "true",
		}
		items, err := s.orgService.List(ctx, filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		if _, ok := s.requireAdmin(w, r); !ok {
			return
		}
		var payload orgusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.orgService.Create(ctx, payload)
		if err != nil {
			if errors.Is(err, orgdomain.ErrDuplicate) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleOrganizationByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/organizations/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "organization id required")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		item, err := s.orgService.Get(ctx, id)
		if err != nil {
			writeDomainError(w, err, orgdomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut, http.MethodPatch:
		if _, ok := s.requireAdmin(w, r); !ok {
			return
		}
		var payload orgusecase.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.orgService.Update(ctx, id, payload)
		if err != nil {
			if errors.Is(err, orgdomain.ErrDuplicate) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeDomainError(w, err, orgdomain.ErrNotFound)
			}
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if _, ok := s.requireAdmin(w, r); !ok {
			return
		}
		if err := s.orgService.Delete(ctx, id); err != nil {
			writeDomainError(w, err, orgdomain.ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		filter := sitedomain.Filter{
			Status:         sitedomain.Status(r.URL.Query().Get("status")),
			OrganizationID: r.URL.Query().Get("organization_id"),
		}
		items, err := s.siteService.List(ctx, filter)
		if err != nil {
			if errors.Is(err, sitedomain.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, err.Error())
			} else {
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var payload siteusecase.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.siteService.Create(ctx, payload)
		if err != nil {
			if errors.Is(err, sitedomain.ErrDuplicateName) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, item)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleSiteByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sites/"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "site id required")
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		item, err := s.siteService.Get(ctx, id)
		if err != nil {
			writeDomainError(w, err, sitedomain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut, http.MethodPatch:
		var payload siteusecase.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		item, err := s.siteService.Update(ctx, id, payload)
		if err != nil {
			if errors.Is(err, sitedomain.ErrDuplicateName) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeDomainError(w, err, sitedomain.ErrNotFound)
			}
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := s.siteService.Delete(ctx, id); err != nil {
			writeDomainError(w, err, sitedomain.ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

// writeDomainError maps a service error to 404 when it matches the
// resource's not-found sentinel and 400 otherwise.
func writeDomainError(w http.ResponseWriter, err, notFound error) {
	if errors.Is(err, notFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
