package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/usecase/purchase"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/usecase/sale"

	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/auth"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/event"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/idgen"
	timeProvider "github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.App.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// Connect to the database and migrate
	dbManager, err := bootstrap.OpenDatabase(startupCtx, cfg, appLogger, tp)
	if err != nil {
		fatal(appLogger, "Failed to initialize database", err)
	}
	defer func() { _ = dbManager.Close() }()

	// Redis is only dialed when the gate or the rate limiter uses it
	redisClient, err := bootstrap.NewRedisClient(startupCtx, cfg, appLogger)
	if err != nil {
		fatal(appLogger, "Failed to connect to redis", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	stockGate, err := bootstrap.NewGate(cfg, redisClient)
	if err != nil {
		fatal(appLogger, "Failed to create stock gate", err)
	}

	// Ledger, optionally serialized per sale through the commit queue
	uow := dbManager.CreateUnitOfWork()
	var saleLedger usecase.SaleLedger = ledger.NewLedger(uow, ids, tp, appLogger)
	var commitQueue *ledger.CommitQueue
	if cfg.Ledger.CommitQueue {
		commitQueue = ledger.NewCommitQueue(saleLedger, appLogger, cfg.Ledger.CommitQueueSize)
		saleLedger = commitQueue
	}

	publisher, err := newPublisher(cfg, ids, tp, appLogger)
	if err != nil {
		fatal(appLogger, "Failed to create event publisher", err)
	}

	// Initialize use cases
	purchaseService := purchase.NewService(saleLedger, stockGate, publisher, ids, tp, appLogger)
	seeder := sale.NewSeeder(uow, stockGate, ids, tp, appLogger)

	tokens := auth.NewTokenManager(cfg.Admin.JWTSecret, coreport.Duration(cfg.Admin.TokenTTL), tp, appLogger)

	limiterCtx, stopLimiters := context.WithCancel(context.Background())
	defer stopLimiters()
	throttling := newThrottling(limiterCtx, cfg, redisClient)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, ids, appLogger)
	routes.SetupRoutes(router, routes.Handlers{
		Sale:   handler.NewSaleHandler(purchaseService, appLogger),
		Admin:  handler.NewAdminHandler(seeder, bootstrap.SeedDefaults(cfg), appLogger),
		Health: handler.NewHealthHandler(dbManager, appLogger),
	}, throttling, tokens, appLogger)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           middleware.CORS(cfg.CORS.AllowedOrigins)(router),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":         server.Addr,
			"env":          cfg.App.Environment,
			"gate":         cfg.Gate.Backend,
			"commit_queue": cfg.Ledger.CommitQueue,
			"kafka":        cfg.Kafka.Enabled,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		appLogger.Error("Server failed", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	// In-flight handlers are done; drain pending commits before closing the database
	if commitQueue != nil {
		appLogger.Info("Draining commit queue...", nil)
		commitQueue.Shutdown()
	}

	if err := publisher.Close(); err != nil {
		appLogger.Warn("Failed to close event publisher", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

func newPublisher(cfg *config.Config, ids coreport.IDGenerator, tp coreport.TimeProvider, log coreport.Logger) (usecase.PurchaseEventPublisher, error) {
	if !cfg.Kafka.Enabled {
		return event.NoopPublisher{}, nil
	}
	return event.NewKafkaPublisher(event.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		Retries:      cfg.Kafka.Retries,
	}, ids, tp, log)
}

func newThrottling(ctx context.Context, cfg *config.Config, client redis.UniversalClient) routes.Throttling {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return routes.Throttling{}
	}

	throttling := routes.Throttling{GlobalWindow: rl.GlobalWindow, PurchaseWindow: rl.PurchaseWindow}
	if rl.Backend == "redis" {
		throttling.Global = middleware.NewRedisLimiter(client, "", rl.GlobalLimit, rl.GlobalWindow)
		throttling.Purchase = middleware.NewRedisLimiter(client, "", rl.PurchaseLimit, rl.PurchaseWindow)
		return throttling
	}

	global := middleware.NewMemoryLimiter(rl.GlobalLimit, rl.GlobalWindow)
	global.StartJanitor(ctx)
	purchaseLimiter := middleware.NewMemoryLimiter(rl.PurchaseLimit, rl.PurchaseWindow)
	purchaseLimiter.StartJanitor(ctx)
	throttling.Global = global
	throttling.Purchase = purchaseLimiter
	return throttling
}

func fatal(log coreport.Logger, msg string, err error) {
	log.Error(msg, map[string]any{"error": err.Error()})
	_ = log.Flush()
	os.Exit(1)
}
