package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Shopify      ShopifyConfig
	Resolution   ResolutionConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ShopifyConfig points the order and fulfillment providers at a store.
type ShopifyConfig struct {
	ShopName         string
	AccessToken      string
	APIVersion       string
	TimeoutSeconds   int
	RatePerSecond    float64
	RateBurst        int
	OrderLookupLimit int
}

// Enabled reports whether enough is configured to call the store API.
func (s ShopifyConfig) Enabled() bool {
	return s.ShopName != "" && s.AccessToken != ""
}

// Timeout returns the HTTP client timeout.
func (s ShopifyConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ResolutionConfig tunes the webhook resolution pipeline.
type ResolutionConfig struct {
	FetchTimeoutSeconds int
	DedupTTLSeconds     int
	Persist             bool
}

// FetchTimeout bounds each call to an order or fulfillment provider.
func (r ResolutionConfig) FetchTimeout() time.Duration {
	return time.Duration(r.FetchTimeoutSeconds) * time.Second
}

// DedupTTL is how long a webhook delivery is remembered.
func (r ResolutionConfig) DedupTTL() time.Duration {
	return time.Duration(r.DedupTTLSeconds) * time.Second
}

// NotificationConfig controls where rendered notes are delivered.
type NotificationConfig struct {
	WebhookURL    string
	InternalNotes bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ratePerSecond, err := strconv.ParseFloat(getEnv("SHOPIFY_RATE_PER_SECOND", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOPIFY_RATE_PER_SECOND: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "order-resolution-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Shopify: ShopifyConfig{
			ShopName:         os.Getenv("SHOPIFY_SHOP_NAME"),
			AccessToken:      os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:       getEnv("SHOPIFY_API_VERSION", "2024-10"),
			TimeoutSeconds:   getEnvAsInt("SHOPIFY_TIMEOUT_SECONDS", 30),
			RatePerSecond:    ratePerSecond,
			RateBurst:        getEnvAsInt("SHOPIFY_RATE_BURST", 4),
			OrderLookupLimit: getEnvAsInt("SHOPIFY_ORDER_LOOKUP_LIMIT", 10),
		},
		Resolution: ResolutionConfig{
			FetchTimeoutSeconds: getEnvAsInt("RESOLUTION_FETCH_TIMEOUT_SECONDS", 10),
			DedupTTLSeconds:     getEnvAsInt("RESOLUTION_DEDUP_TTL_SECONDS", 86400),
			Persist:             getEnvAsBool("RESOLUTION_PERSIST", true),
		},
		Notification: NotificationConfig{
			WebhookURL:    getEnv("NOTIFY_WEBHOOK_URL", ""),
			InternalNotes: getEnvAsBool("NOTIFY_INTERNAL_NOTES", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
