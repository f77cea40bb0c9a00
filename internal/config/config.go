package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken      string
	MigrationsURL string
	Database      DatabaseConfig
	HTTP          HTTPConfig
	Practice      PracticeConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// HTTPConfig holds API server settings
type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// PracticeConfig holds practice session settings
type PracticeConfig struct {
	// SessionTTL is how long an untouched practice session is kept
	SessionTTL time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	sessionTTL, err := time.ParseDuration(getEnv("PRACTICE_SESSION_TTL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("PRACTICE_SESSION_TTL is invalid: %w", err)
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("PRACTICE_SESSION_TTL must be positive")
	}

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		MigrationsURL: getEnv("MIGRATIONS_PATH", "file://migrations"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordtrainer"),
			User:     getEnv("DB_USER", "wordtrainer"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Addr:           getEnv("HTTP_ADDR", ":8080"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Practice: PracticeConfig{
			SessionTTL: sessionTTL,
		},
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return cfg, nil
}

// RequireBot checks the settings only the Telegram bot needs
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
