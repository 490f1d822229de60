// Package config reads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

var ErrMissingSetting = errors.New("missing required setting")

// Config holds the runtime settings of the FoodConnect server.
type Config struct {
	Port                 string
	Environment          string
	LogLevel             string
	ApiVersion           string
	StoreBackend         string
	DatabaseURL          string
	JWTSecret            []byte
	JWTTTL               time.Duration
	MailgunDomain        string
	MailgunAPIKey        string
	CORSOrigins          []string
	OTPAttemptsPerMinute int
	EmailMXCheck         bool
}

// Load builds a Config from the process environment. JWT_SECRET is always required,
// the database settings only when the postgres store is selected.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		Environment:   getenv("ENVIRONMENT", "development"),
		LogLevel:      strings.ToUpper(getenv("LOG_LEVEL", "INFO")),
		ApiVersion:    os.Getenv("API_VERSION"),
		StoreBackend:  strings.ToLower(getenv("STORE_BACKEND", StoreBackendPostgres)),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
		}
		cfg.JWTTTL = d
	}

	cfg.OTPAttemptsPerMinute = 5
	if attempts := os.Getenv("OTP_ATTEMPTS_PER_MINUTE"); attempts != "" {
		n, err := strconv.Atoi(attempts)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid OTP_ATTEMPTS_PER_MINUTE %q", attempts)
		}
		cfg.OTPAttemptsPerMinute = n
	}

	if check := os.Getenv("EMAIL_MX_CHECK"); check != "" {
		enabled, err := strconv.ParseBool(check)
		if err != nil {
			return nil, fmt.Errorf("invalid EMAIL_MX_CHECK %q: %w", check, err)
		}
		cfg.EmailMXCheck = enabled
	}

	switch cfg.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		url, err := databaseURL()
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = url
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// IsProduction reports whether outgoing mail should really be sent.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func databaseURL() (string, error) {
	var (
		dbHost     = os.Getenv("DB_HOST")
		dbPort     = os.Getenv("DB_PORT")
		dbUser     = os.Getenv("DB_USER")
		dbPassword = os.Getenv("DB_PASS")
		dbName     = os.Getenv("DB_NAME")
	)

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		return "", fmt.Errorf("%w: DB_HOST, DB_PORT, DB_USER, DB_PASS and DB_NAME", ErrMissingSetting)
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName), nil
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
