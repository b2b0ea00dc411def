package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/auth"
	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/config"
	"github.com/arafatrahman/Property-Rental-Management/internal/handler"
	"github.com/arafatrahman/Property-Rental-Management/internal/middleware"
	"github.com/arafatrahman/Property-Rental-Management/internal/notify"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/arafatrahman/Property-Rental-Management/internal/service"
	"github.com/arafatrahman/Property-Rental-Management/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx := context.Background()

	// Initialize stores
	remote, users, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open stores: %v", err)
	}
	defer closeStores()
	local := repository.NewLocalStore(cfg.SnapshotPath(), logger)

	// Initialize layers
	clk := clock.System{}
	provider := auth.NewProvider(users, cfg.JWTSecret, cfg.TokenTTL, logger)
	svc := service.NewService(clk, logger)
	defer svc.Close()

	var deliverer notify.Deliverer = notify.LogDeliverer{Log: logger}
	if cfg.EmailEnabled() {
		deliverer = email.NewSender(cfg, logger)
	}
	scheduler := notify.NewScheduler(deliverer, clk, logger)
	svc.SetPlanner(notify.NewPlanner(scheduler, logger))
	if err := scheduler.Start(cfg.ReminderSpec); err != nil {
		logger.Fatalf("Failed to start reminder scheduler: %v", err)
	}

	coord := service.NewCoordinator(svc, local, remote, provider, logger)
	if err := coord.Start(ctx, cfg.SessionToken); err != nil {
		logger.Errorf("Failed to resume session, running as guest: %v", err)
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	handler.NewHandler(svc, coord, logger).Register(r, provider)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	<-scheduler.Stop().Done()
	svc.Flush()
}

// openStores connects the remote document store and the account table chosen by cfg
func openStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.RemoteStore, auth.Users, func(), error) {
	if cfg.RemoteBackend == config.BackendMemory {
		logger.Warn("Using in-memory remote store, account data is lost on restart")
		return repository.NewMemoryStore(), repository.NewMemoryUserStore(), func() {}, nil
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	users := repository.NewUserStore(db)

	if cfg.RemoteBackend == config.BackendFirestore {
		fs, err := repository.NewFirestoreStore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Infof("Using Firestore project %s for account data", cfg.FirebaseProjectID)
		return fs, users, func() {
			if err := fs.Close(); err != nil {
				logger.Errorf("Failed to close Firestore client: %v", err)
			}
			db.Close()
		}, nil
	}

	logger.Info("Using Postgres for account data")
	return repository.NewPostgresStore(db), users, func() { db.Close() }, nil
}
