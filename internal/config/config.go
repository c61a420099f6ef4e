package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds the Prism Central connection parameters. Flags take
// precedence; unset flags fall back to the environment.
type Settings struct {
	Hostname string
	Port     string
	Username string
	Password string
	// Insecure skips certificate verification for self-signed setups
	Insecure bool
}

// Load reads connection settings from environment variables,
// automatically loading a .env file if present
func Load() *Settings {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	validateCerts := true
	if raw := os.Getenv("VALIDATE_CERTS"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			validateCerts = parsed
		}
	}

	return &Settings{
		Hostname: getEnv("PC_HOSTNAME", ""),
		Port:     getEnv("PC_PORT", "9440"),
		Username: getEnv("PC_USERNAME", ""),
		Password: getEnv("PC_PASSWORD", ""),
		Insecure: !validateCerts,
	}
}

// Validate checks that the settings are sufficient to reach Prism Central
func (s *Settings) Validate() error {
	if s.Hostname == "" {
		return fmt.Errorf("Prism Central hostname is required (--host or PC_HOSTNAME)")
	}
	if s.Username == "" {
		return fmt.Errorf("Prism Central username is required (--username or PC_USERNAME)")
	}
	if s.Password == "" {
		return fmt.Errorf("Prism Central password is required (--password or PC_PASSWORD)")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
