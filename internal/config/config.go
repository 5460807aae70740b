package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App          AppConfig
	JWT          JWTConfig
	Slot         SlotConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
	Housekeeping HousekeepingConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	BcryptCost     int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// SlotConfig selects where the portal document and session markers live.
type SlotConfig struct {
	Backend  string // memory, local, postgres, redis
	Key      string
	BasePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	URL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type VerificationConfig struct {
	CodeTTL time.Duration
}

// HousekeepingConfig drives the background jobs.
type HousekeepingConfig struct {
	Interval    time.Duration
	SessionIdle time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	bcryptCost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
		BcryptCost:     bcryptCost,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Slot configuration
	config.Slot = SlotConfig{
		Backend:  getEnv("SLOT_BACKEND", "local"),
		Key:      getEnv("SLOT_KEY", "hris_db"),
		BasePath: getEnv("SLOT_BASE_PATH", "./data"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris-portal"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	config.Redis = RedisConfig{
		URL: getEnv("REDIS_URL", "localhost:6379"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@hris-portal.local"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Portal"),
	}

	// Verification configuration
	codeTTL, err := time.ParseDuration(getEnv("VERIFICATION_CODE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_CODE_TTL: %w", err)
	}

	config.Verification = VerificationConfig{
		CodeTTL: codeTTL,
	}

	// Housekeeping configuration
	interval, err := time.ParseDuration(getEnv("HOUSEKEEPING_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOUSEKEEPING_INTERVAL: %w", err)
	}
	sessionIdle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}

	config.Housekeeping = HousekeepingConfig{
		Interval:    interval,
		SessionIdle: sessionIdle,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.App.BcryptCost < bcrypt.MinCost || c.App.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Housekeeping.Interval <= 0 {
		return fmt.Errorf("HOUSEKEEPING_INTERVAL must be positive")
	}
	if c.Slot.Key == "" {
		return fmt.Errorf("SLOT_KEY is required")
	}

	switch c.Slot.Backend {
	case "memory", "local":
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required")
		}
	default:
		return fmt.Errorf("unsupported SLOT_BACKEND: %s", c.Slot.Backend)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
