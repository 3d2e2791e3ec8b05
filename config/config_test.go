package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "ORDER_LEAD_TIME", "APP_TIMEZONE",
		"ORDER_STRICT_TRANSITIONS", "REDIS_ADDR", "IDEMPOTENCY_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "weekly_menu.db", cfg.DBDSN)
	assert.Equal(t, 2*time.Hour, cfg.LeadTime)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location.String())
	assert.False(t, cfg.StrictTransitions)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, "*", cfg.CORSOrigin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("ORDER_LEAD_TIME", "90m")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "true")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.LeadTime)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"DB_DRIVER":                "postgres",
		"ORDER_LEAD_TIME":          "two hours",
		"APP_TIMEZONE":             "Mars/Olympus",
		"ORDER_STRICT_TRANSITIONS": "maybe",
		"RATE_LIMIT_BURST":         "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", DBDSN: "file::memory:"})
	require.NoError(t, err)
	assert.NoError(t, db.Exec("SELECT 1").Error)
}
