package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for agency-site
type Config struct {
	Server   ServerConfig
	Content  ContentConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Contact  ContactConfig
	Links    LinksConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool
}

// ContentConfig points at the optional catalog file
type ContentConfig struct {
	File string
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty DSN keeps contact messages in memory.
type DatabaseConfig struct {
	DSN             string
	MigrationsDir   string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration.
// An empty address keeps selections in memory.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// SessionConfig holds visitor selection persistence settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// ContactConfig holds contact form rate limits
type ContactConfig struct {
	RatePerMinute float64
	Burst         int
}

// LinksConfig holds outbound link targets
type LinksConfig struct {
	Signup string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
			TrustProxy:  getEnvAsBool("SERVER_TRUST_PROXY", false),
		},
		Content: ContentConfig{
			File: getEnv("CONTENT_FILE", ""),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", ""),
			MigrationsDir:   getEnv("DATABASE_MIGRATIONS_DIR", ""),
			MaxConns:        getEnvAsInt("DATABASE_MAX_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Contact: ContactConfig{
			RatePerMinute: getEnvAsFloat("CONTACT_RATE_PER_MINUTE", 5),
			Burst:         getEnvAsInt("CONTACT_BURST", 3),
		},
		Links: LinksConfig{
			Signup: getEnv("LINK_SIGNUP", "/signup"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.MaxConns < 1 {
		return fmt.Errorf("invalid database max conns: %d", c.Database.MaxConns)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}

	if c.Contact.RatePerMinute <= 0 {
		return fmt.Errorf("invalid contact rate: %v", c.Contact.RatePerMinute)
	}

	if c.Contact.Burst < 1 {
		return fmt.Errorf("invalid contact burst: %d", c.Contact.Burst)
	}

	if c.Links.Signup == "" {
		return fmt.Errorf("signup link is required")
	}

	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParseLevel maps a LOG_LEVEL value to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q", level)
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
