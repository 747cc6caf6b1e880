package config

import (
	"fmt"
	"strconv"
)

// ValidateConfig rejects configurations that cannot possibly serve: missing
// connection coordinates, unusable ports, or an empty JWT secret.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"server port": cfg.ServerPort,
		"db host":     cfg.DBHost,
		"db port":     cfg.DBPort,
		"db user":     cfg.DBUser,
		"db name":     cfg.DBName,
		"jwt secret":  cfg.JWTSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	for name, value := range map[string]string{
		"server port": cfg.ServerPort,
		"db port":     cfg.DBPort,
	} {
		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("%s %q is not a valid port", name, value)
		}
	}

	if IsProduction() && cfg.JWTSecret == "dev-secret" {
		return fmt.Errorf("production requires a real jwt secret")
	}
	return nil
}
