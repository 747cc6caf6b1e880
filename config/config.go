package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// S3 configuration
	S3Bucket string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files, depending on the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	switch env := GetEnvironment(); env {
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	case CI, Development, Test:
		loadEnvConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvConfig loads configuration from environment variables with
// development defaults.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getenv("SERVER_PORT", "8080")
	cfg.ServerHost = getenv("SERVER_HOST", "0.0.0.0")
	cfg.DBHost = getenv("DB_HOST", "localhost")
	cfg.DBPort = getenv("DB_PORT", "5432")
	cfg.DBUser = getenv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getenv("DB_NAME", "foodgram")
	cfg.DBSSLMode = getenv("DB_SSL_MODE", "disable")
	cfg.RedisHost = getenv("REDIS_HOST", "localhost")
	cfg.RedisPort = getenv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB = 0
	cfg.JWTSecret = getenv("JWT_SECRET", "dev-secret")
	cfg.S3Bucket = getenv("S3_BUCKET_NAME", "foodgram-media")
}

// loadProdConfig loads configuration for production using ONLY Docker secrets
func loadProdConfig(cfg *Config) error {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}

	readSecret := func(name string) (string, error) {
		content, err := os.ReadFile(filepath.Join(secretsDir, name))
		if err != nil {
			return "", fmt.Errorf("failed to read secret %s: %w", name, err)
		}
		return strings.TrimSpace(string(content)), nil
	}

	secrets := map[string]*string{
		"server_port":    &cfg.ServerPort,
		"server_host":    &cfg.ServerHost,
		"db_host":        &cfg.DBHost,
		"db_port":        &cfg.DBPort,
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"db_name":        &cfg.DBName,
		"db_ssl_mode":    &cfg.DBSSLMode,
		"redis_host":     &cfg.RedisHost,
		"redis_port":     &cfg.RedisPort,
		"redis_password": &cfg.RedisPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"s3_bucket":      &cfg.S3Bucket,
	}
	for name, dst := range secrets {
		value, err := readSecret(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	cfg.RedisDB = 0
	return nil
}
