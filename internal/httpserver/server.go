package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fleetops/backend/internal/config"
	authusecase "fleetops/backend/internal/usecase/auth"
	driverusecase "fleetops/backend/internal/usecase/driver"
	"fleetops/backend/internal/usecase/mailverify"
	orgusecase "fleetops/backend/internal/usecase/organization"
	siteusecase "fleetops/backend/internal/usecase/site"
	userusecase "fleetops/backend/internal/usecase/user"
	vehicleusecase "fleetops/backend/internal/usecase/vehicle"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer     *http.Server
	router         *http.ServeMux
	authService    *authusecase.Service
	userService    *userusecase.Service
	mailService    *mailverify.Service
	driverService  *driverusecase.Service
	vehicleService *vehicleusecase.Service
	orgService     *orgusecase.Service
	siteService    *siteusecase.Service
	allowedOrigins []string
	cookieMaxAge   time.Duration
	cookieSecure   bool
	addr           string
}

// Services bundles the use-case dependencies of the HTTP layer.
type Services struct {
	Auth          *authusecase.Service
	Users         *userusecase.Service
	Mail          *mailverify.Service
	Drivers       *driverusecase.Service
	Vehicles      *vehicleusecase.Service
	Organizations *orgusecase.Service
	Sites         *siteusecase.Service
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, services Services) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	handler := withLogging(withCORS(mux, cfg.AllowedOrigins))

	srv := &Server{
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:         mux,
		authService:    services.Auth,
		userService:    services.Users,
		mailService:    services.Mail,
		driverService:  services.Drivers,
		vehicleService: services.Vehicles,
		orgService:     services.Organizations,
		siteService:    services.Sites,
		allowedOrigins: cfg.AllowedOrigins,
		cookieMaxAge:   cfg.CookieMaxAge,
		cookieSecure:   cfg.CookieSecure(),
		addr:           addr,
	}
	srv.httpServer.Addr = addr
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the provided address.
func (s *Server) Start() error {
	s.httpServer.Addr = s.addr
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying ServeMux so routes can be registered.
func (s *Server) Router() *http.ServeMux {
	return s.router
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
