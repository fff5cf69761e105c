package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/danuarta/dompetku/internal/budget"
	"github.com/danuarta/dompetku/internal/infra/postgres"
	infraredis "github.com/danuarta/dompetku/internal/infra/redis"
	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/internal/platform/user"
	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/internal/rates"
	"github.com/danuarta/dompetku/internal/report"
	"github.com/danuarta/dompetku/internal/transport/httpapi"
	"github.com/danuarta/dompetku/internal/transport/httpapi/handler"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
	"github.com/danuarta/dompetku/pkg/config"
	"github.com/danuarta/dompetku/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env in development; ignore when the file is absent
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Dompetku API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"base_currency", cfg.BaseCurrency,
	)

	// Initialize database connection pool
	dbCfg := postgres.Config{
		URL: cfg.DatabaseURL,
	}
	db, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for exchange-rate caching
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize exchange-rate components
	rateClient := rates.NewClient(cfg.RateAPIURL, cfg.RateAPITimeout)
	rateCache := infraredis.NewRateCacheWithTTL(redisClient, cfg.RateCacheTTL, log)
	converter := rates.NewService(rateClient, rateCache, cfg.BaseCurrency, log)
	log.Info("Exchange-rate service initialized", "provider", cfg.RateAPIURL)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	walletRepo := postgres.NewWalletRepository(db.Pool)
	categoryRepo := postgres.NewCategoryRepository(db.Pool)
	ledgerRepo := postgres.NewLedgerRepository(db.Pool)
	budgetRepo := postgres.NewBudgetRepository(db.Pool)

	// Initialize services
	userSvc := user.NewService(userRepo, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	walletSvc := wallet.NewService(walletRepo)
	categoryResolver := category.NewResolver(categoryRepo, user.NewPlanGate(userSvc))
	ledgerSvc := ledger.NewService(ledgerRepo, walletRepo, categoryResolver, converter, log)
	reportSvc := report.NewService(ledgerRepo, walletRepo, userRepo, converter, log)
	budgetSvc := budget.NewService(budgetRepo, ledgerRepo, categoryRepo, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc)
	categoryHandler := handler.NewCategoryHandler(categoryResolver)
	budgetHandler := handler.NewBudgetHandler(budgetSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	healthHandler := handler.NewHealthHandler(db.Pool, redisPinger{redisClient})

	// Create JWT middleware
	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		// In production, read from environment variable
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	routerCfg := httpapi.RouterConfig{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		AuthHandler:        authHandler,
		WalletHandler:      walletHandler,
		TransactionHandler: transactionHandler,
		CategoryHandler:    categoryHandler,
		BudgetHandler:      budgetHandler,
		ReportHandler:      reportHandler,
		HealthHandler:      healthHandler,
		JWTMiddleware:      jwtMiddleware,
	}
	r := httpapi.NewRouter(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}

// redisPinger adapts the go-redis client to the health check Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
