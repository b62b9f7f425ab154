package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/ride-hub/internal/archive"
	"github.com/example/ride-hub/internal/config"
	"github.com/example/ride-hub/internal/eta"
	"github.com/example/ride-hub/internal/events"
	"github.com/example/ride-hub/internal/httpapi"
	"github.com/example/ride-hub/internal/hub"
	"github.com/example/ride-hub/internal/logging"
	"github.com/example/ride-hub/internal/payments"
	"github.com/example/ride-hub/internal/presence"
	"github.com/example/ride-hub/internal/profiles"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	dir := profiles.NewSeedDirectory()
	if cfg.ProfileFile != "" {
		d, err := profiles.LoadFile(cfg.ProfileFile)
		if err != nil {
			logger.Error("profile file load failed", "path", cfg.ProfileFile, "error", err)
			os.Exit(1)
		}
		dir = d
		logger.Info("profiles loaded", "path", cfg.ProfileFile)
	}

	var estimator eta.Estimator = eta.NewRandomEstimator(cfg.ETAMinMinutes, cfg.ETAMaxMinutes, time.Now().UnixNano())
	if cfg.OSRMEndpoint != "" {
		estimator = eta.NewOSRMEstimator(cfg.OSRMEndpoint, estimator)
		logger.Info("osrm estimator enabled", "endpoint", cfg.OSRMEndpoint)
	}

	var rideArchive archive.RideArchive = archive.NewMemoryArchive()
	if cfg.PGDSN != "" {
		if cfg.RunMigrations {
			if err := runMigrations(cfg.PGDSN); err != nil {
				logger.Warn("migration failed", "error", err)
			}
		}
		if pa, err := archive.NewPostgresArchive(cfg.PGDSN); err == nil {
			rideArchive = pa
			defer pa.Close()
			logger.Info("postgres ride archive enabled")
		} else {
			logger.Warn("postgres unavailable, using in-memory archive", "error", err)
		}
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		logger.Info("kafka events enabled", "topic", cfg.KafkaTopic)
	}

	var mirror *presence.Mirror
	if cfg.RedisAddr != "" {
		mirror = presence.NewMirror(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
		defer mirror.Close()
		logger.Info("redis presence mirror enabled", "addr", cfg.RedisAddr)
	}

	var stripeClient *payments.StripeClient
	if cfg.StripeAPIKey != "" {
		stripeClient = payments.NewStripeClient(cfg.StripeAPIKey)
		logger.Info("stripe fare holds enabled")
	}

	h := hub.New(hub.Config{
		Logger:        logger,
		Profiles:      dir,
		ETA:           estimator,
		Archive:       rideArchive,
		Events:        producer,
		Presence:      mirror,
		Payments:      stripeClient,
		ReminderDelay: cfg.ReminderDelay,
	})

	// Read/write timeouts stay unset: WebSocket connections are long-lived
	// and per-request deadlines would cut them off mid-session.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(logger, h, mirror),
		ReadHeaderTimeout: cfg.ReadTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("ride hub listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	b, err := os.ReadFile(filepath.Join("migrations", "001_create_rides.sql"))
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}
