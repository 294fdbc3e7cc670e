// Package config loads service configuration from the environment.
// A .env file is honored in development; real deployments set variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	// HTTP server
	Port            string
	ShutdownTimeout time.Duration

	// Environment: development, production
	Env      string
	LogLevel string

	// Database
	DatabaseURL     string
	DBMaxConns      int32
	DBMinConns      int32
	DBMaxConnIdle   time.Duration
	DBHealthCheck   time.Duration

	// Auth
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// Worker
	SweepInterval    time.Duration
	GenerateInterval time.Duration
	PaymentDueDay    int // day of month payments fall due
}

// Load reads configuration from the environment.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("APP_PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:    int32(getEnvInt("DB_MIN_CONNS", 5)),
		DBMaxConnIdle: getEnvDuration("DB_MAX_CONN_IDLE", 30*time.Minute),
		DBHealthCheck: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", "domus"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		SweepInterval:    getEnvDuration("OVERDUE_SWEEP_INTERVAL", time.Hour),
		GenerateInterval: getEnvDuration("PAYMENT_GENERATE_INTERVAL", 6*time.Hour),
		PaymentDueDay:    getEnvInt("PAYMENT_DUE_DAY", 10),
	}

	return cfg, cfg.Validate()
}

// Validate checks required settings; called by Load.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.Env == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-secret-change-me"
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid APP_PORT %q", c.Port)
	}
	if c.PaymentDueDay < 1 || c.PaymentDueDay > 28 {
		return fmt.Errorf("PAYMENT_DUE_DAY must be 1-28, got %d", c.PaymentDueDay)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return parsed
}
