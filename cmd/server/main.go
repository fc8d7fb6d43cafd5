package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fleetops/backend/internal/config"
	"fleetops/backend/internal/httpserver"
	"fleetops/backend/internal/infrastructure/mail"
	"fleetops/backend/internal/infrastructure/postgres"
	"fleetops/backend/internal/infrastructure/token"
	authusecase "fleetops/backend/internal/usecase/auth"
	driverusecase "fleetops/backend/internal/usecase/driver"
	"fleetops/backend/internal/usecase/mailverify"
	orgusecase "fleetops/backend/internal/usecase/organization"
	siteusecase "fleetops/backend/internal/usecase/site"
	userusecase "fleetops/backend/internal/usecase/user"
	vehicleusecase "fleetops/backend/internal/usecase/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rootCtx := context.Background()
	db, err := postgres.New(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(rootCtx); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	sessionTokens := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)
	emailTokens := token.NewEmailTokenManager(cfg.EmailVerificationSecret, cfg.EmailTokenExpiry)
	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.MailFrom, cfg.SMTPUsername, cfg.SMTPPassword)

	users := postgres.NewUserRepository(db.Pool)

	services := httpserver.Services{
		Auth:          authusecase.NewService(users, sessionTokens),
		Users:         userusecase.NewService(users),
		Mail:          mailverify.NewService(users, emailTokens, mailer, cfg.FrontendURL),
		Drivers:       driverusecase.NewService(postgres.NewDriverRepository(db.Pool)),
		Vehicles:      vehicleusecase.NewService(postgres.NewVehicleRepository(db.Pool)),
		Organizations: orgusecase.NewService(postgres.NewOrganizationRepository(db.Pool)),
		Sites:         siteusecase.NewService(postgres.NewSiteRepository(db.Pool)),
	}

	server := httpserver.NewServer(cfg, services)
	log.Printf("HTTP server listening on %s", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server closed: %v", err)
				return
			}
			log.Fatalf("server error: %v", err)
		}
		log.Printf("HTTP server stopped accepting new connections")
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v\n", err)
	} else {
		log.Printf("graceful shutdown completed")
	}
}
