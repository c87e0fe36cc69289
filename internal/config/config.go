package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
)

type Config struct {
	Port     int
	LogLevel string

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	StripeSecretKey string
	Currency        string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	StaticDir string
}

// Load reads the given env files, or ./.env if present when none are
// given, and then the process environment. Named files must exist.
func Load(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		return FromEnv()
	}
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		slog.Info("no .env file, using process environment")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	port, err := config.EnvIntDefault("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	ttl, err := config.EnvDurationDefault("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            port,
		LogLevel:        config.EnvDefault("LOG_LEVEL", "info"),
		DBDriver:        config.EnvDefault("DB_DRIVER", db.DriverPgx),
		DatabaseURL:     config.EnvDefault("DATABASE_URL", ""),
		JWTSecret:       []byte(config.EnvDefault("JWT_SECRET", "")),
		TokenTTL:        ttl,
		StripeSecretKey: config.EnvDefault("STRIPE_SECRET_KEY", ""),
		Currency:        config.EnvDefault("CURRENCY", "cad"),
		KafkaBrokers:    config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),
		ESURL:           config.EnvDefault("ES_URL", ""),
		ESUser:          config.EnvDefault("ES_USER", ""),
		ESPassword:      config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:         config.EnvDefault("ES_INDEX", "products"),
		StaticDir:       config.EnvDefault("STATIC_DIR", ""),
	}
	return cfg, nil
}

// ValidateDB checks only what commands touching the store need.
func (c *Config) ValidateDB() error {
	var r config.Required
	c.requireDB(&r)
	return r.Err()
}

// Validate checks everything the API server needs to start.
func (c *Config) Validate() error {
	var r config.Required
	c.requireDB(&r)
	r.NonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	r.NonEmpty(c.StripeSecretKey, "STRIPE_SECRET_KEY")
	return r.Err()
}

func (c *Config) requireDB(r *config.Required) {
	if c.DBDriver == db.DriverSQLite {
		if c.DatabaseURL == "" {
			c.DatabaseURL = "storefront.db"
		}
		return
	}
	r.NonEmpty(c.DatabaseURL, "DATABASE_URL")
}
