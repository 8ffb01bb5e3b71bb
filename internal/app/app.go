// Package app wires together all dependencies and runs the service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowmart/storefront/internal/config"
	"github.com/glowmart/storefront/internal/event"
	handler "github.com/glowmart/storefront/internal/handler/http"
	"github.com/glowmart/storefront/internal/repository/postgres"
	"github.com/glowmart/storefront/internal/service"
	"github.com/glowmart/storefront/internal/storage"
	"github.com/glowmart/storefront/migrations"
	"github.com/glowmart/storefront/pkg/database"
	"github.com/glowmart/storefront/pkg/health"
	pkgkafka "github.com/glowmart/storefront/pkg/kafka"
	"github.com/glowmart/storefront/pkg/middleware"
	"github.com/glowmart/storefront/pkg/tracing"
)

// Version is stamped at build time.
var Version = "dev"

// App holds the wired application and its lifecycle handles.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server

	shutdownTracer func(context.Context) error
}

// NewApp creates the application with all dependencies initialized.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pgCfg := cfg.Postgres()
	pgCfg.MaxConns = 25
	pgCfg.MinConns = 5
	pgCfg.MaxConnLifetime = time.Hour
	pgCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	prometheus.MustRegister(database.NewPoolStatsCollector(pool, "storefront_assets"))

	store, err := newBlobStore(cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init blob storage: %w", err)
	}
	logger.Info("blob storage initialized", slog.String("backend", cfg.StorageBackend))

	var (
		producer  *pkgkafka.Producer
		publisher event.Publisher = event.NoopPublisher{}
	)
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewKafkaPublisher(producer)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka disabled, events will be dropped")
	}

	repo := postgres.NewAssetRepository(pool)
	assetService := service.NewAssetService(repo, store, publisher, logger)
	assetHandler := handler.NewAssetHandler(assetService, logger, cfg.MaxUploadSize)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("blob_storage", store.Ping)
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(assetHandler, healthHandler, logger, corsCfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		shutdownTracer: shutdownTracer,
	}, nil
}

func newBlobStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "minio":
		return storage.NewMinIOStore(cfg.MinIO())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
