package config

import (
	"fmt"

	"github.com/glowmart/storefront/internal/storage"
	pkgconfig "github.com/glowmart/storefront/pkg/config"
	"github.com/glowmart/storefront/pkg/database"
	"github.com/glowmart/storefront/pkg/tracing"
)

// Config holds all configuration for the storefront asset service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Maximum accepted upload size in bytes.
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"glowmart"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"glowmart_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Blob storage backend: "minio" or "memory".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"minio"`

	// MinIO / S3
	MinIOEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"glowmart"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"glowmart_secret"`
	MinIOBucket    string `env:"MINIO_BUCKET" envDefault:"assets"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinIOPublicURL string `env:"MINIO_PUBLIC_URL" envDefault:""`

	// Kafka. An empty broker list disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	return cfg, nil
}

// Postgres returns the database connection settings.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,
	}
}

// MinIO returns the blob storage settings.
func (c *Config) MinIO() storage.MinIOConfig {
	return storage.MinIOConfig{
		Endpoint:      c.MinIOEndpoint,
		AccessKey:     c.MinIOAccessKey,
		SecretKey:     c.MinIOSecretKey,
		Bucket:        c.MinIOBucket,
		UseSSL:        c.MinIOUseSSL,
		PublicBaseURL: c.MinIOPublicURL,
	}
}

// Tracing returns the tracer settings.
func (c *Config) Tracing(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    "storefront-assets",
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTLPEndpoint,
		SampleRate:     c.TraceSampleRate,
		Enabled:        c.TracingEnabled,
	}
}
