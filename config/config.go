package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port              string
	GinMode           string
	DBDriver          string
	DBDSN             string
	LogLevel          string
	LeadTime          time.Duration
	Location          *time.Location
	StrictTransitions bool
	RedisAddr         string
	IdempotencyTTL    time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSOrigin        string
}

// Load reads the configuration from the environment. Unset variables take their defaults;
// malformed ones are an error.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    os.Getenv("GIN_MODE"),
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:      getEnv("DB_DSN", "weekly_menu.db"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	var err error
	if cfg.LeadTime, err = durationEnv("ORDER_LEAD_TIME", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	tz := getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}

	if v := os.Getenv("ORDER_STRICT_TRANSITIONS"); v != "" {
		if cfg.StrictTransitions, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("ORDER_STRICT_TRANSITIONS: %w", err)
		}
	}

	cfg.RateLimitRPS = 20
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil || cfg.RateLimitRPS <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS: invalid value %q", v)
		}
	}
	cfg.RateLimitBurst = 40
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if cfg.RateLimitBurst, err = strconv.Atoi(v); err != nil || cfg.RateLimitBurst < 1 {
			return nil, fmt.Errorf("RATE_LIMIT_BURST: invalid value %q", v)
		}
	}

	return cfg, nil
}

// InitDB opens the configured database. Unique violations surface as gorm.ErrDuplicatedKey.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), gcfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DBDSN), gcfg)
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
