package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME" envDefault:"intelliplan"`

	RedisAddr    string `env:"REDIS_ADDR"`
	RedisChannel string `env:"REDIS_CHANNEL" envDefault:"intelliplan-admin-sse"`

	JWTSecretKey string        `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// 0 means one goroutine per user and per lookup with no cap.
	ReconcileMaxConcurrency int           `env:"RECONCILE_MAX_CONCURRENCY" envDefault:"0"`
	ReconcileDebounce       time.Duration `env:"RECONCILE_DEBOUNCE" envDefault:"0s"`
	ReconcileRetryBackoff   time.Duration `env:"RECONCILE_RETRY_BACKOFF" envDefault:"1s"`

	ItemsPerPage   int    `env:"ITEMS_PER_PAGE" envDefault:"20"`
	Timezone       string `env:"TIMEZONE" envDefault:"Local"`
	InsightsConfig string `env:"INSIGHTS_CONFIG"`

	// CHANGE_FEED is "postgres" (LISTEN/NOTIFY) or "memory" (in-process
	// writes only, for databases without triggers).
	ChangeFeed      string        `env:"CHANGE_FEED" envDefault:"postgres"`
	StoreMaxIdle    time.Duration `env:"DASHBOARD_STORE_MAX_IDLE" envDefault:"30m"`
	SweepInterval   time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	ReportBucket       string `env:"REPORT_BUCKET"`
	ReportObjectPrefix string `env:"REPORT_OBJECT_PREFIX" envDefault:"exports/"`
	GoogleCredentials  string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	StorageEmulator    string `env:"STORAGE_EMULATOR_HOST"`

	MetricsAddr string `env:"METRICS_ADDR"`

	OtelEnabled     bool              `env:"OTEL_ENABLED" envDefault:"false"`
	OtelServiceName string            `env:"OTEL_SERVICE_NAME" envDefault:"intelliplan-admin"`
	OtelEnvironment string            `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	OtelEndpoint    string            `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool              `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OtelHeaders     map[string]string `env:"OTEL_EXPORTER_OTLP_HEADERS" envSeparator:"," envKeyValSeparator:"="`
	OtelSampleRatio float64           `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000"`
}

const (
	ChangeFeedPostgres = "postgres"
	ChangeFeedMemory   = "memory"
)

// Load reads an optional .env file (ignored when absent) and parses the
// environment into a Config.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = 20
	}
	if cfg.ReconcileMaxConcurrency < 0 {
		cfg.ReconcileMaxConcurrency = 0
	}
	switch strings.ToLower(strings.TrimSpace(cfg.ChangeFeed)) {
	case ChangeFeedMemory:
		cfg.ChangeFeed = ChangeFeedMemory
	case "", ChangeFeedPostgres:
		cfg.ChangeFeed = ChangeFeedPostgres
	default:
		return Config{}, fmt.Errorf("CHANGE_FEED: unknown mode %q", cfg.ChangeFeed)
	}
	if cfg.OtelSampleRatio < 0 {
		cfg.OtelSampleRatio = 0
	} else if cfg.OtelSampleRatio > 1 {
		cfg.OtelSampleRatio = 1
	}
	return cfg, nil
}

// DSN returns POSTGRES_DSN verbatim or assembles one from the split keys.
func (c Config) DSN() string {
	if dsn := strings.TrimSpace(c.PostgresDSN); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
	)
}

// Location resolves TIMEZONE; "Local" (the default) and unknown names fall
// back to the process local zone.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
