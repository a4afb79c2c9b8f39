package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	ReportAPIBaseURL string        `envconfig:"REPORT_API_BASE_URL" default:"http://127.0.0.1:8000"`
	ReportTimeout    time.Duration `envconfig:"REPORT_TIMEOUT" default:"10s"`
	// ReportCacheTTL of zero keeps every page load uncached.
	ReportCacheTTL          time.Duration `envconfig:"REPORT_CACHE_TTL" default:"0s"`
	TopBrands               int           `envconfig:"TOP_BRANDS" default:"5"`
	RecommendationRankOrder string        `envconfig:"RECOMMENDATION_RANK_ORDER" default:"api"`
	ViewConfigPath          string        `envconfig:"VIEW_CONFIG_PATH"`

	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	WarmupCron   string `envconfig:"WARMUP_CRON" default:"*/15 * * * *"`
}

// LoadConfig reads configuration from environment variables. A .env file in the
// working directory is applied first; variables already set in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Debug("dotenv not loaded", slog.Any("error", err))
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if strings.TrimSpace(cfg.ReportAPIBaseURL) == "" {
		return nil, errors.New("report api base url must be provided")
	}
	if cfg.ReportTimeout <= 0 {
		return nil, fmt.Errorf("report timeout must be positive, got %s", cfg.ReportTimeout)
	}
	if cfg.TopBrands <= 0 {
		cfg.TopBrands = 5
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// CacheEnabled reports whether fetched reports may be served from Redis.
func (c *Config) CacheEnabled() bool {
	return c != nil && c.ReportCacheTTL > 0
}
