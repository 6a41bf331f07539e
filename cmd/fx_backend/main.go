package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/adapters/messaging"
	"github.com/SscSPs/fx_exchange_engine/internal/adapters/rateproviders"
	"github.com/SscSPs/fx_exchange_engine/internal/adapters/settlement"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/fx_exchange_engine/internal/core/ports/repositories"
	"github.com/SscSPs/fx_exchange_engine/internal/core/services"
	"github.com/SscSPs/fx_exchange_engine/internal/handlers"
	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/config"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/metrics"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/cache"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/fx_exchange_engine/internal/repositories/memory"
	"github.com/SscSPs/fx_exchange_engine/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// @title FX Exchange Engine API
// @version 1.0
// @description Currency exchange quoting and execution service.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	cacheStore, closeCache, err := setupRateCacheStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher := setupEventPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)
	container := services.NewServiceContainer(cfg, repos, services.Dependencies{
		Providers:  rateproviders.FromConfig(cfg, logger),
		CacheStore: cacheStore,
		Confirmer:  settlement.AutoConfirmer{},
		Metrics:    m,
	})
	relay := services.NewOutboxRelay(repos.OutboxRepo, publisher, cfg.OutboxBatchSize, services.WithMetrics(m))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger, m), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	rateLimiter, err := middleware.NewMemoryRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, container, rateLimiter, prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		services.RunPeriodically(gctx, "order_completion", cfg.CompletionInterval, container.Completion.CompleteDueOrders)
		return nil
	})
	g.Go(func() error {
		services.RunPeriodically(gctx, "outbox_relay", cfg.OutboxInterval, relay.RelayOnce)
		return nil
	})
	g.Go(func() error {
		services.RunPeriodically(gctx, "quote_purge", cfg.QuotePurgeInterval, container.Quotes.PurgeExpiredQuotes)
		return nil
	})

	return g.Wait()
}

// setupRepositories opens the configured storage and returns its repositories
// with a cleanup func.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func setupRateCacheStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (gateways.RateCacheStore, func(), error) {
	if cfg.RateCacheDriver != config.DriverRedis {
		return memory.NewRateCacheStore(), func() {}, nil
	}
	client, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close redis client", slog.String("error", err.Error()))
		}
	}
	return cache.NewRedisRateStore(client, 0), closeFn, nil
}

func setupEventPublisher(cfg *config.Config, logger *slog.Logger) gateways.EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, events are written to the log")
		return messaging.NewLogPublisher(logger)
	}
	logger.Info("Publishing events to Kafka",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", cfg.KafkaExchangeTopic))
	return messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaExchangeTopic)
}
