package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// MinJWTSecretLength is the shortest HS256 secret the server accepts
const MinJWTSecretLength = 32

// Config holds all configuration for the API server
type Config struct {
	// Database
	DatabaseURL string

	// Tokens
	JWTSecret   []byte
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration

	// Server
	Port          string
	CORSOrigins   []string
	Env           string
	AuthRateLimit int
}

// ClientConfig holds configuration for the ledger CLI
type ClientConfig struct {
	APIURL         string
	TokenFile      string
	RequestTimeout time.Duration
	LogLevel       zerolog.Level
}

// Load reads server configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	ttl, err := getDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getInt("AUTH_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     []byte(getEnv("JWT_SECRET", "")),
		JWTIssuer:     getEnv("JWT_ISSUER", "fortuna-ledger"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "fortuna-ledger-api"),
		TokenTTL:      ttl,
		Port:          getEnv("PORT", "5002"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:           getEnv("ENV", "development"),
		AuthRateLimit: rateLimit,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.AuthRateLimit <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadClient reads CLI configuration from environment variables
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("LEDGER_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("LEDGER_REQUEST_TIMEOUT must be positive")
	}

	level, err := zerolog.ParseLevel(getEnv("LEDGER_LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("LEDGER_LOG_LEVEL: %w", err)
	}

	tokenFile := getEnv("LEDGER_TOKEN_FILE", "")
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("LEDGER_TOKEN_FILE is not set and the home directory is unknown: %w", err)
		}
		tokenFile = filepath.Join(home, ".fortuna-ledger", "token")
	}

	return &ClientConfig{
		APIURL:         strings.TrimRight(getEnv("LEDGER_API_URL", "http://127.0.0.1:5002"), "/"),
		TokenFile:      tokenFile,
		RequestTimeout: timeout,
		LogLevel:       level,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
