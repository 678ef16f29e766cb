package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	AMQP     AMQPConfig
	SMTP     SMTPConfig
	Razorpay RazorpayConfig
	Storage  StorageConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path          string // SQLite database file path
	FavoritesPath string // local favorites fallback cache file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address string // listen address (e.g., ":8080")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret   string // JWT signing secret
	TokenTTLMin int    // token lifetime in minutes
}

// AMQPConfig contains RabbitMQ settings for external order-event fan-out.
// Publishing is disabled when URL is empty.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// SMTPConfig contains outbound email settings. Email is logged instead of
// sent when Host is empty.
type SMTPConfig struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

// RazorpayConfig contains payment provider credentials. Card and wallet
// payments are accepted without a provider reference when KeyID is empty.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// StorageConfig contains blob storage settings.
type StorageConfig struct {
	Dir            string // directory for uploaded files
	InlineMaxBytes int64  // files at or below this size are inlined as data URLs
}

// Load loads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in
// development. WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:          getEnv("DB_PATH", "grubz.db"),
			FavoritesPath: getEnv("FAVORITES_CACHE_PATH", "grubz-favorites.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenTTLMin: getEnvInt("TOKEN_TTL_MIN", 24*60),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "orders_topic"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnvInt("SMTP_PORT", 587),
			From: getEnv("SMTP_FROM", "no-reply@grubz.local"),
			User: getEnv("SMTP_USER", ""),
			Pass: getEnv("SMTP_PASS", ""),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Storage: StorageConfig{
			Dir:            getEnv("STORAGE_DIR", "uploads"),
			InlineMaxBytes: int64(getEnvInt("STORAGE_INLINE_MAX_BYTES", 16*1024)),
		},
	}
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer, falling back to
// the default on absence or parse failure.
func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, AMQP: %t, SMTP: %t, Razorpay: %t, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.AMQP.URL != "", c.SMTP.Host != "", c.Razorpay.KeyID != "")
}
