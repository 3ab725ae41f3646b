package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Record store
	DataDir         string
	FallbackDataDir string

	// PDF conversion
	InputDir       string
	GeminiModel    string
	ConvertTimeout time.Duration

	// Dashboard
	APIBaseURL string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataDir:         getEnv("MACCOUNTING_DATA_DIR", "/persistent_data/data"),
		FallbackDataDir: getEnv("MACCOUNTING_FALLBACK_DATA_DIR", "data"),

		InputDir:       getEnv("MACCOUNTING_INPUT_DIR", "/persistent_data/input"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ConvertTimeout: getEnvDuration("CONVERT_TIMEOUT", 5*time.Minute),

		APIBaseURL: getEnv("MACCOUNTING_API_BASE_URL", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}
	if c.FallbackDataDir == "" {
		errors = append(errors, "fallback data directory cannot be empty")
	}
	if c.InputDir == "" {
		errors = append(errors, "input directory cannot be empty")
	}
	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}

	if c.ConvertTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid convert timeout %v: must be at least 1 second", c.ConvertTimeout))
	} else if c.ConvertTimeout > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid convert timeout %v: must be at most 1 hour", c.ConvertTimeout))
	}

	if c.APIBaseURL != "" && !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': must start with http:// or https://", c.APIBaseURL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
