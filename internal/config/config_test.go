package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "storefront_db", cfg.PostgresDB)
	assert.Equal(t, "minio", cfg.StorageBackend)
	assert.Equal(t, "assets", cfg.MinIOBucket)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("TRACE_SAMPLE_RATE", "0.5")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.InDelta(t, 0.5, cfg.TraceSampleRate, 0.001)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Postgres(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "6432")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, 6432, pg.Port)
	assert.Equal(t, "storefront_db", pg.DBName)
}

func TestConfig_Tracing(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	tc := cfg.Tracing("1.2.3")
	assert.True(t, tc.Enabled)
	assert.Equal(t, "storefront-assets", tc.ServiceName)
	assert.Equal(t, "1.2.3", tc.ServiceVersion)
	assert.Equal(t, "development", tc.Environment)
}
