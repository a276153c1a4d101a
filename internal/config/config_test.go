package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		for _, key := range []string{"ENVIRONMENT", "PORT", "PAGE_SIZE", "EXPORT_DEFAULT_FORMAT", "CORS_ALLOWED_ORIGINS", "DB_MAX_CONNS"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		require.NotNil(t, cfg)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "8000", cfg.Port)
		assert.Equal(t, 6, cfg.Pagination.PageSize)
		assert.Equal(t, "pdf", cfg.Export.DefaultFormat)
		assert.Equal(t, []string{"http://localhost", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("PAGE_SIZE", "12")
		t.Setenv("EXPORT_DEFAULT_FORMAT", "txt")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://foodgram.example, https://admin.foodgram.example ,")

		cfg := Load()
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, 12, cfg.Pagination.PageSize)
		assert.Equal(t, "txt", cfg.Export.DefaultFormat)
		assert.Equal(t, []string{"https://foodgram.example", "https://admin.foodgram.example"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("InvalidIntegerFallsBack", func(t *testing.T) {
		t.Setenv("PAGE_SIZE", "lots")
		assert.Equal(t, 6, Load().Pagination.PageSize)

		t.Setenv("PAGE_SIZE", "-3")
		assert.Equal(t, 6, Load().Pagination.PageSize)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		Name:     "foodgram",
		User:     "user",
		Password: "secret",
		SSLMode:  "disable",
		MaxConns: 4,
	}
	assert.Equal(t,
		"host=localhost port=5432 dbname=foodgram user=user password=secret sslmode=disable pool_max_conns=4",
		cfg.DSN())

	cfg.MaxConns = 0
	assert.NotContains(t, cfg.DSN(), "pool_max_conns")
}
