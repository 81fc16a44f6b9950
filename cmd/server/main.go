package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/pawnledger/internal/adapter/http"
	"github.com/iho/pawnledger/internal/adapter/http/handler"
	"github.com/iho/pawnledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/pawnledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/pawnledger/internal/adapter/repository/redis"
	"github.com/iho/pawnledger/internal/infrastructure/config"
	"github.com/iho/pawnledger/internal/infrastructure/logger"
	"github.com/iho/pawnledger/internal/infrastructure/metrics"
	"github.com/iho/pawnledger/internal/infrastructure/postgres"
	"github.com/iho/pawnledger/internal/infrastructure/pricing"
	"github.com/iho/pawnledger/internal/infrastructure/redis"
	"github.com/iho/pawnledger/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.SetGlobal(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
		ConnectRetries: cfg.DatabaseConnectRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{
		URL:            cfg.RedisURL,
		PoolSize:       cfg.RedisPoolSize,
		ConnectRetries: cfg.RedisConnectRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	udhariRepo := postgresRepo.NewUdhariRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	loanRepo := postgresRepo.NewGoldLoanRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	locker := redisRepo.NewLocker(redisClient).WithTTL(cfg.PaymentLockTTL)

	prices := newPriceProvider(cfg, cache, m)

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(customerRepo, udhariRepo, paymentRepo, loanRepo, idGen, m)
	udhariUC := usecase.NewUdhariUseCase(udhariRepo, paymentRepo, customerRepo, locker, idGen, m)
	loanUC := usecase.NewGoldLoanUseCase(txManager.WithIsolation(pgx.RepeatableRead), loanRepo, customerRepo, locker, idGen, m).
		WithRetrier(postgresRepo.NewRetrier(cfg.PaymentMaxRetries))
	reconcileUC := usecase.NewReconciliationUseCase(txManager, loanRepo, m)
	txnUC := usecase.NewTransactionUseCase(txnRepo, customerRepo, prices, idGen)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, idGen)
	summaryUC := usecase.NewSummaryUseCase(udhariUC, loanRepo, expenseUC)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go sweepLimiters(ctx, rateLimiter)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler:    handler.NewCustomerHandler(customerUC),
		UdhariHandler:      handler.NewUdhariHandler(udhariUC),
		GoldLoanHandler:    handler.NewGoldLoanHandler(loanUC, reconcileUC),
		TransactionHandler: handler.NewTransactionHandler(txnUC),
		ExpenseHandler:     handler.NewExpenseHandler(expenseUC),
		SummaryHandler:     handler.NewSummaryHandler(summaryUC, prices),
		HealthHandler: handler.NewHealthHandler(
			handler.PingFunc(pool.Ping),
			handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           &appLogger,
	})

	server := newServer(cfg, router)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("live_prices", cfg.PricesEnabled()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// newPriceProvider serves the hardcoded fallback when no metals feed is configured.
func newPriceProvider(cfg *config.Config, store usecase.Cache, m *metrics.Metrics) *pricing.Provider {
	var upstream pricing.Upstream
	if cfg.PricesEnabled() {
		upstream = pricing.NewHTTPUpstream(cfg.MetalsAPIURL, cfg.FXAPIURL, cfg.PriceTimeout)
	} else {
		log.Warn().Msg("METALS_API_URL not set, serving fallback prices")
	}
	return pricing.NewProvider(upstream, pricing.NewQuoteCache(cfg.PriceCacheTTL, nil), store, m)
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(limiterIdleTimeout)
		}
	}
}
