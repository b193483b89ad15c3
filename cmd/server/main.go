package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/hogar/gastos/internal/adapter/http"
	"github.com/hogar/gastos/internal/adapter/http/handler"
	"github.com/hogar/gastos/internal/adapter/http/middleware"
	postgresRepo "github.com/hogar/gastos/internal/adapter/repository/postgres"
	redisRepo "github.com/hogar/gastos/internal/adapter/repository/redis"
	"github.com/hogar/gastos/internal/infrastructure/amqp"
	"github.com/hogar/gastos/internal/infrastructure/config"
	"github.com/hogar/gastos/internal/infrastructure/eventpublisher"
	"github.com/hogar/gastos/internal/infrastructure/logger"
	"github.com/hogar/gastos/internal/infrastructure/metrics"
	"github.com/hogar/gastos/internal/infrastructure/postgres"
	"github.com/hogar/gastos/internal/infrastructure/redis"
	"github.com/hogar/gastos/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	monthRepo := postgresRepo.NewMonthRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Use cases
	expenseUC := usecase.NewExpenseUseCase(txManager, memberRepo, expenseRepo, monthRepo, outboxRepo, idGen, cache, retrier, appMetrics)
	shareUC := usecase.NewShareUseCase(txManager, memberRepo, expenseRepo, monthRepo, outboxRepo, idGen, cache, retrier, appMetrics)
	memberUC := usecase.NewMemberUseCase(memberRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)

	// Event publisher: RabbitMQ when configured, logging fallback otherwise
	var publisher eventpublisher.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer amqpPublisher.Close()
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to rabbitmq")

		publisher = amqpPublisher
	} else {
		log.Warn().Msg("AMQP_URL not set, events will be logged instead of published")
		publisher = eventpublisher.NewLogPublisher(log)
	}

	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	// Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC),
		ShareHandler:     handler.NewShareHandler(shareUC),
		MemberHandler:    handler.NewMemberHandler(memberUC),
		CategoryHandler:  handler.NewCategoryHandler(categoryUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		Logging:          middleware.NewLoggingMiddleware(log),
		Metrics:          middleware.NewMetricsMiddleware(appMetrics),
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return outboxPublisher.Start(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info().Msg("server stopped")

	return nil
}
