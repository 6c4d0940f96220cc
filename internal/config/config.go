package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultEnv               = "development"
	defaultHTTPHost          = "0.0.0.0"
	defaultHTTPPort          = 8080
	defaultRedisDB           = 0
	defaultCacheTTLSeconds   = 30
	defaultSessionTTLSeconds = 3600
	defaultPIN               = "1111"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env      string
	HTTP     HTTPConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Session  SessionConfig
	Wallet   WalletConfig
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// PostgresConfig stores database connection parameters for the
// historical price store. An empty DSN disables the Postgres backend.
type PostgresConfig struct {
	DSN string
}

// SQLiteConfig stores the file path of the SQLite historical price
// store, used when no Postgres DSN is configured. Empty disables it.
type SQLiteConfig struct {
	Path string
}

// RedisConfig stores Redis connection parameters. An empty Addr
// disables Redis; sessions then live in process memory and candle
// responses are not cached.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig stores response cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

// SessionConfig stores wallet session lifetime.
type SessionConfig struct {
	TTLSeconds int
}

// WalletConfig stores the simulator's own knobs.
type WalletConfig struct {
	PIN               string
	CatalogPath       string
	RecordDailyCloses bool
}

// Load builds Config from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	host := getString("HTTP_HOST", defaultHTTPHost)
	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	sessionTTL, err := getInt("SESSION_TTL_SECONDS", defaultSessionTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL_SECONDS: %w", err)
	}

	recordCloses, err := getBool("RECORD_DAILY_CLOSES", false)
	if err != nil {
		return nil, fmt.Errorf("parse RECORD_DAILY_CLOSES: %w", err)
	}

	return &Config{
		Env:  getString("APP_ENV", defaultEnv),
		HTTP: HTTPConfig{Host: host, Port: port},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_DSN"),
		},
		SQLite: SQLiteConfig{
			Path: os.Getenv("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
		Session: SessionConfig{
			TTLSeconds: sessionTTL,
		},
		Wallet: WalletConfig{
			PIN:               getString("WALLET_PIN", defaultPIN),
			CatalogPath:       os.Getenv("CATALOG_PATH"),
			RecordDailyCloses: recordCloses,
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("convert %s value %q to bool: %w", key, value, err)
	}
	return parsed, nil
}
