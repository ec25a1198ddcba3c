package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventseat/reserve-api/internal/app"
	"github.com/eventseat/reserve-api/internal/clock"
	"github.com/eventseat/reserve-api/internal/config"
	"github.com/eventseat/reserve-api/internal/cryptoutil"
	"github.com/eventseat/reserve-api/internal/identity"
	"github.com/eventseat/reserve-api/internal/storage/postgres"
	transporthttp "github.com/eventseat/reserve-api/internal/transport/http"
	"github.com/eventseat/reserve-api/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load(logger)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	verifier := identity.NewVerifier(cfg.JWTSecret, cfg.JWTRefreshSecret)
	encryptor := cryptoutil.NewEncryptor(cfg.EncryptionKey)

	reservationRepo := postgres.NewReservationRepository(pool)
	reservationSvc := app.NewReservationService(reservationRepo, clock.NewSystem(), encryptor)
	eventRepo := postgres.NewEventRepository(pool)
	eventSvc := app.NewEventService(eventRepo, clock.NewSystem())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/auth/token", transporthttp.HandleIssueToken(verifier))
	mux.Handle("/auth/refresh", transporthttp.HandleRefreshToken(verifier))
	mux.Handle("/reservations", transporthttp.RequireAuth(verifier, transporthttp.HandleReservations(reservationSvc)))
	mux.Handle("/reservations/", transporthttp.RequireAuth(verifier, transporthttp.HandleReservationByID(reservationSvc)))
	mux.Handle("/admin/events", transporthttp.HandleAdminEvents(eventSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
