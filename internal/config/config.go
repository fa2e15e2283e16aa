package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated from environment variables (optionally via a .env file).
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	NATS     NATSConfig
	Search   SearchConfig
	Feed     FeedConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	// AllowedOrigins is the CORS allow list; "*" allows any origin.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Driver selects the store implementation: "postgres" or "memory".
	Driver string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	Enabled  bool
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry int // hours
}

type NATSConfig struct {
	URL           string // empty disables event publishing
	SubjectPrefix string
}

type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration
}

type FeedConfig struct {
	Limit          int
	PerSellerLimit int
	WindowDays     int
	FetchTimeout   time.Duration
	Concurrency    int
}

type JobConfig struct {
	RedisAddr             string
	ReconcileCountersCron string
	HealthPort            string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Poultry Marketplace API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvInt("JWT_ACCESS_EXPIRY_HOURS", 24),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "marketplace"),
		},
		Search: SearchConfig{
			DefaultLimit: getEnvInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvInt("SEARCH_MAX_LIMIT", 100),
			CacheTTL:     getEnvDuration("SEARCH_CACHE_TTL", 30*time.Second),
		},
		Feed: FeedConfig{
			Limit:          getEnvInt("FEED_LIMIT", 50),
			PerSellerLimit: getEnvInt("FEED_PER_SELLER_LIMIT", 20),
			WindowDays:     getEnvInt("FEED_WINDOW_DAYS", 30),
			FetchTimeout:   getEnvDuration("FEED_FETCH_TIMEOUT", 2*time.Second),
			Concurrency:    getEnvInt("FEED_CONCURRENCY", 8),
		},
		Jobs: JobConfig{
			RedisAddr:             getEnv("REDIS_HOST", "localhost:6379"),
			ReconcileCountersCron: getEnv("JOB_RECONCILE_COUNTERS_CRON", "0 3 * * *"),
			HealthPort:            getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that would make the service unsafe or unusable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", c.Database.Driver)
	}

	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("invalid search limits: default=%d max=%d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}

	if c.Feed.Limit <= 0 || c.Feed.PerSellerLimit <= 0 || c.Feed.Concurrency <= 0 {
		return fmt.Errorf("feed limits and concurrency must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Driver == "memory" {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	}

	return nil
}

// FeedWindow is the recency window of the following feed.
func (f FeedConfig) FeedWindow() time.Duration {
	return time.Duration(f.WindowDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
