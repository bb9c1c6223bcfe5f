package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret       string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`

	// Redis (chat broadcast broker + unread-count cache)
	RedisURL      string `env:"REDIS_URL" default:"redis://localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Notification dispatch
	DispatchEager   bool `env:"DISPATCH_EAGER" default:"false"`
	DispatchWorkers int  `env:"DISPATCH_WORKERS" default:"4"`

	// File Storage
	UploadPath    string `env:"UPLOAD_PATH" default:"./data/uploads"`
	UploadMaxSize int64  `env:"UPLOAD_MAX_SIZE" default:"10485760"` // bytes

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"debug"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the project root
	if err := godotenv.Load(".env"); err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}

	// Notification dispatch
	if err := loadEnvBool(&config.DispatchEager, "DISPATCH_EAGER", false); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DispatchWorkers, "DISPATCH_WORKERS", 4); err != nil {
		return nil, err
	}

	// File storage
	if err := loadEnvString(&config.UploadPath, "UPLOAD_PATH", "./data/uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvInt64(&config.UploadMaxSize, "UPLOAD_MAX_SIZE", 10*1024*1024); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// --- env loading helpers ---

func loadEnvString(target *string, key, defaultValue string) error {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	*target = value
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	*target = parsed
	return nil
}

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	*target = parsed
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}
	*target = parsed
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	*target = parsed
	return nil
}
