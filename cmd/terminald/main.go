package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/config"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/reconcile"
	"github.com/fekuna/omnipos-terminal/pkg/logger"

	checkoutH "github.com/fekuna/omnipos-terminal/internal/checkout/handler"
	checkoutRepoPkg "github.com/fekuna/omnipos-terminal/internal/checkout/repository"
	checkoutUCPkg "github.com/fekuna/omnipos-terminal/internal/checkout/usecase"

	invH "github.com/fekuna/omnipos-terminal/internal/inventory/handler"
	invUCPkg "github.com/fekuna/omnipos-terminal/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-terminal/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-terminal/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-terminal/internal/product/usecase"

	sessionBackendPkg "github.com/fekuna/omnipos-terminal/internal/session/backend"
	sessionH "github.com/fekuna/omnipos-terminal/internal/session/handler"
	sessionUCPkg "github.com/fekuna/omnipos-terminal/internal/session/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
		logConfig.DisableCaller = cfg.Logger.DisableCaller
		logConfig.DisableStacktrace = cfg.Logger.DisableStacktrace
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open the remote store connection pool. The terminal must come up
	// with the network down, so nothing here pings or fails fatal; the
	// probe decides reachability per operation.
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.DBName, cfg.Postgres.SSLMode)
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		appLogger.Fatal("Could not set up database handle", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)
	defer db.Close()

	// 4. Open the device-local store. This one is fatal: without it the
	// terminal has no offline capability at all.
	store, err := localstore.Open(cfg.LocalStore.Path)
	if err != nil {
		appLogger.Fatal("Could not open local store", zap.Error(err))
	}
	defer store.Close()
	appLogger.Info("Opened local store", zap.String("path", cfg.LocalStore.Path))

	// 5. Connectivity probe
	probe := connectivity.NewPingProbe(db, time.Duration(cfg.Sync.ProbeTTL)*time.Second, appLogger)

	// 6. Repositories
	prodRepo := prodRepoPkg.NewPGRepository(db)
	checkoutRepo := checkoutRepoPkg.NewPGRepository(db)

	// 7. UseCases
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, store, probe, appLogger)
	invUC := invUCPkg.NewStockEngine(prodUC, prodRepo, store, probe, appLogger)
	checkoutUC := checkoutUCPkg.NewCoordinator(checkoutRepo, invUC, prodUC, store, probe, appLogger)

	authBackend := sessionBackendPkg.NewHTTPBackend(cfg.Auth.BaseURL, cfg.Auth.APIKey)
	sessionUC := sessionUCPkg.NewSessionManager(authBackend, store, probe, appLogger)

	// 8. Reconnect sweeper: cron schedule plus connectivity-edge trigger.
	sweeper := reconcile.NewSweeper(prodRepo, checkoutRepo, store, probe, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Sync.SweepSpec, func() {
		if err := sweeper.Run(ctx); err != nil {
			appLogger.Error("reconciliation sweep failed", zap.Error(err))
		}
	}); err != nil {
		appLogger.Fatal("Invalid sweep schedule", zap.String("spec", cfg.Sync.SweepSpec), zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		for online := range probe.Subscribe() {
			if online {
				if err := sweeper.Run(ctx); err != nil {
					appLogger.Error("reconciliation sweep failed", zap.Error(err))
				}
			}
		}
	}()

	// 9. Handlers + Router
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	checkoutHandler := checkoutH.NewCheckoutHandler(checkoutUC, appLogger)
	sessionHandler := sessionH.NewSessionHandler(sessionUC, appLogger)

	r := chi.NewRouter()
	r.Mount("/products", prodHandler.Routes())
	r.Mount("/stock", invHandler.Routes())
	r.Mount("/checkout", checkoutHandler.Routes())
	r.Mount("/session", sessionHandler.Routes())

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: r,
	}

	appLogger.Info("Starting terminal API", zap.String("addr", cfg.Server.HTTPAddr))

	// Graceful Shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down terminal...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Terminal stopped")
}
