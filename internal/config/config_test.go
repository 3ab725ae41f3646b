package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		DataDir:         "/persistent_data/data",
		FallbackDataDir: "data",
		InputDir:        "/persistent_data/input",
		GeminiModel:     "gemini-2.5-flash",
		ConvertTimeout:  5 * time.Minute,
		APIBaseURL:      "",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid with base url",
			mutate:  func(c *Config) { c.APIBaseURL = "https://accounting.example.com" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty data dir",
			mutate:      func(c *Config) { c.DataDir = "" },
			wantErr:     true,
			errorString: "data directory cannot be empty",
		},
		{
			name:        "empty input dir",
			mutate:      func(c *Config) { c.InputDir = "" },
			wantErr:     true,
			errorString: "input directory cannot be empty",
		},
		{
			name:        "empty model",
			mutate:      func(c *Config) { c.GeminiModel = "" },
			wantErr:     true,
			errorString: "Gemini model name cannot be empty",
		},
		{
			name:        "convert timeout too small",
			mutate:      func(c *Config) { c.ConvertTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "convert timeout too large",
			mutate:      func(c *Config) { c.ConvertTimeout = 2 * time.Hour },
			wantErr:     true,
			errorString: "must be at most 1 hour",
		},
		{
			name:        "bad base url scheme",
			mutate:      func(c *Config) { c.APIBaseURL = "ftp://example.com" },
			wantErr:     true,
			errorString: "must start with http:// or https://",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
				t.Fatalf("Validate() error = %q, want substring %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MACCOUNTING_DATA_DIR", "MACCOUNTING_FALLBACK_DATA_DIR", "MACCOUNTING_INPUT_DIR", "GEMINI_MODEL", "CONVERT_TIMEOUT", "MACCOUNTING_API_BASE_URL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DataDir != "/persistent_data/data" {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.FallbackDataDir != "data" {
		t.Fatalf("FallbackDataDir = %q", cfg.FallbackDataDir)
	}
	if cfg.InputDir != "/persistent_data/input" {
		t.Fatalf("InputDir = %q", cfg.InputDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MACCOUNTING_DATA_DIR", "/tmp/books")
	t.Setenv("CONVERT_TIMEOUT", "90s")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DataDir != "/tmp/books" {
		t.Fatalf("DataDir = %q, want /tmp/books", cfg.DataDir)
	}
	if cfg.ConvertTimeout != 90*time.Second {
		t.Fatalf("ConvertTimeout = %v, want 90s", cfg.ConvertTimeout)
	}
}
