package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	// CI wins over ENV
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "JWT_SECRET", "S3_BUCKET_NAME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, "foodgram-media", cfg.S3Bucket)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			ServerPort: "8080",
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "postgres",
			DBName:     "foodgram",
			JWTSecret:  "secret",
		}
	}

	assert.NoError(t, ValidateConfig(base()))

	missing := base()
	missing.DBHost = ""
	assert.Error(t, ValidateConfig(missing))

	badPort := base()
	badPort.ServerPort = "not-a-port"
	assert.Error(t, ValidateConfig(badPort))

	outOfRange := base()
	outOfRange.DBPort = "70000"
	assert.Error(t, ValidateConfig(outOfRange))
}

func TestValidateConfigRejectsDevSecretInProduction(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{
		ServerPort: "8080",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBName:     "foodgram",
		JWTSecret:  "dev-secret",
	}
	assert.Error(t, ValidateConfig(cfg))
}

func TestLoadProdConfigFromSecrets(t *testing.T) {
	dir := t.TempDir()
	secrets := map[string]string{
		"server_port":    "8080",
		"server_host":    "0.0.0.0",
		"db_host":        "db",
		"db_port":        "5432",
		"db_user":        "foodgram",
		"db_password":    "hunter2",
		"db_name":        "foodgram",
		"db_ssl_mode":    "require",
		"redis_host":     "redis",
		"redis_port":     "6379",
		"redis_password": "",
		"jwt_secret":     "prod-secret\n",
		"s3_bucket":      "foodgram-media",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
	}

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "hunter2", cfg.DBPassword)
	// secret files are trimmed
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}
