package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "EUR", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "postgres://postgres:@localhost:5432/money?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "USD", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "MissingSecret",
			env:  map[string]string{"JWT_SECRET": ""},
		},
		{
			name: "UnknownBackend",
			env:  map[string]string{"JWT_SECRET": "secret", "STORAGE_BACKEND": "sqlite"},
		},
		{
			name: "BadLogLevel",
			env:  map[string]string{"JWT_SECRET": "secret", "LOG_LEVEL": "loud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
