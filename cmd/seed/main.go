package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/usecase/sale"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/auth"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/gate"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/idgen"
	timeProvider "github.com/amirhossein-jamali/flash-sale/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/bootstrap"
	"github.com/amirhossein-jamali/flash-sale/internal/infrastructure/config"
)

func main() {
	upcoming := flag.Duration("upcoming", 0, "delay the sale start by this offset, e.g. 5m")
	duration := flag.Duration("duration", 0, "sale window length (default from config)")
	stock := flag.Int64("stock", 0, "total stock (default from config)")
	product := flag.String("product", "", "product name (default from config)")
	printToken := flag.Bool("print-token", false, "print an admin token for the reset endpoint and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	if *printToken {
		tokens := auth.NewTokenManager(cfg.Admin.JWTSecret, coreport.Duration(cfg.Admin.TokenTTL), tp, appLogger)
		token, err := tokens.GenerateToken("seed-cli", auth.RoleAdmin)
		if err != nil {
			log.Fatalf("Failed to generate admin token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, appLogger, tp, *upcoming, *duration, *stock, *product); err != nil {
		appLogger.Error("Seeding failed", map[string]any{"error": err.Error()})
		_ = appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log coreport.Logger, tp coreport.TimeProvider, upcoming, duration time.Duration, stock int64, product string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbManager, err := bootstrap.OpenDatabase(ctx, cfg, log, tp)
	if err != nil {
		return err
	}
	defer func() { _ = dbManager.Close() }()

	// Migrations are always applied here so a fresh database can be seeded
	if err := dbManager.Migrate(ctx); err != nil {
		return err
	}

	redisClient, err := bootstrap.NewRedisClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	stockGate, err := bootstrap.NewGate(cfg, redisClient)
	if err != nil {
		return err
	}
	if cfg.Gate.Backend != gate.BackendRedis {
		log.Warn("In-memory gate of a running API is not cleared by this tool; use the admin reset endpoint", nil)
	}

	opts := bootstrap.SeedDefaults(cfg)
	opts.StartDelay = upcoming
	if duration > 0 {
		opts.Duration = duration
	}
	if stock > 0 {
		opts.TotalStock = stock
	}
	if product != "" {
		opts.ProductName = product
	}

	seeder := sale.NewSeeder(dbManager.CreateUnitOfWork(), stockGate, idgen.NewUUIDGenerator(), tp, log)
	seeded, err := seeder.SeedOrReset(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Flash sale %s ready: %q, %d units, %s -> %s\n",
		seeded.ID, seeded.ProductName, seeded.TotalStock,
		seeded.StartTime.Format(time.RFC3339), seeded.EndTime.Format(time.RFC3339))
	return nil
}
