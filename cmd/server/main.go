package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dispatch/internal/app"
	"dispatch/internal/config"
	"dispatch/internal/handler"
	internalRedis "dispatch/internal/redis"
	"dispatch/internal/repository/postgres"
	"dispatch/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, notifier := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	// Let queued notifications drain before the process exits.
	notifier.Close()

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// notifier, which the caller must Close after the server stops.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.Notifier) {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	orderRepo := postgres.NewOrderRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	cashbackRepo := postgres.NewCashbackRepository(db)
	txRepo := postgres.NewTransactionRepository(db)
	pricingRepo := postgres.NewPricingRepository(db)

	// Services.
	notifier := service.NewNotifier(cfg.Notifier, &http.Client{Timeout: cfg.Notifier.RequestTimeout})
	pricingService := service.NewPricingService(pricingRepo, cacheStore)
	ledgerService := service.NewLedgerService(db, driverRepo, cashbackRepo, txRepo, pricingService, cfg.Ledger.CommissionRate)
	orderService := service.NewOrderService(orderRepo, requestRepo, driverRepo, ledgerService, notifier, pricingService, lockStore, cacheStore)
	requestService := service.NewRequestService(requestRepo, orderRepo, driverRepo, notifier)
	driverService := service.NewDriverService(driverRepo, txRepo)

	// Handlers.
	requestHandler := handler.NewRequestHandler(requestService)
	orderHandler := handler.NewOrderHandler(orderService)
	driverHandler := handler.NewDriverHandler(driverService)
	accountHandler := handler.NewAccountHandler(cashbackRepo)

	// Router.
	router := app.NewRouter(app.RouterDeps{
		RequestHandler: requestHandler,
		OrderHandler:   orderHandler,
		DriverHandler:  driverHandler,
		AccountHandler: accountHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, notifier
}
