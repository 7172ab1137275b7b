package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConsumerKey, EnvConsumerSecret, EnvAccessToken, EnvAccessSecret} {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.API.BaseURL != "https://api.twitter.com" {
		t.Errorf("Expected default base URL to be https://api.twitter.com, got %s", config.API.BaseURL)
	}

	if config.RateLimit.SafetyMargin != time.Second {
		t.Errorf("Expected default safety margin to be 1s, got %v", config.RateLimit.SafetyMargin)
	}

	if config.RateLimit.RequestsPerWindow != 0 {
		t.Errorf("Expected client-side pacing to be disabled by default, got %d", config.RateLimit.RequestsPerWindow)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConsumerKey, "ck")
	t.Setenv(EnvConsumerSecret, "cs")
	t.Setenv(EnvAccessToken, "at")
	t.Setenv(EnvAccessSecret, "as")
	t.Setenv("TWITTERWIPE_TIMEOUT", "10s")
	t.Setenv("TWITTERWIPE_REQUESTS_PER_WINDOW", "50")
	t.Setenv("TWITTERWIPE_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Twitter.ConsumerKey != "ck" || config.Twitter.ConsumerSecret != "cs" ||
		config.Twitter.AccessToken != "at" || config.Twitter.AccessSecret != "as" {
		t.Errorf("Expected credentials from environment, got %+v", config.Twitter)
	}

	if config.API.Timeout != 10*time.Second {
		t.Errorf("Expected timeout to be 10s, got %v", config.API.Timeout)
	}

	if config.RateLimit.RequestsPerWindow != 50 {
		t.Errorf("Expected requests per window to be 50, got %d", config.RateLimit.RequestsPerWindow)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("TWITTERWIPE_REQUESTS_PER_WINDOW", "lots")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected error for non-numeric requests per window")
	}
}

func TestMissingCredentialsReportsAll(t *testing.T) {
	config := DefaultConfig()

	missing := config.MissingCredentials()
	want := []string{EnvConsumerKey, EnvConsumerSecret, EnvAccessToken, EnvAccessSecret}
	if len(missing) != len(want) {
		t.Fatalf("Expected %d missing credentials, got %v", len(want), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("Expected missing[%d] to be %s, got %s", i, want[i], missing[i])
		}
	}

	err := config.RequireCredentials()
	if err == nil {
		t.Fatal("Expected error when credentials are missing")
	}
	for _, name := range want {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected error to mention %s, got %v", name, err)
		}
	}
}

func TestMissingCredentialsPartial(t *testing.T) {
	config := DefaultConfig()
	config.Twitter.ConsumerKey = "ck"
	config.Twitter.AccessToken = "at"

	missing := config.MissingCredentials()
	if len(missing) != 2 || missing[0] != EnvConsumerSecret || missing[1] != EnvAccessSecret {
		t.Errorf("Expected consumer secret and access secret to be missing, got %v", missing)
	}

	config.Twitter.ConsumerSecret = "cs"
	config.Twitter.AccessSecret = "as"
	if err := config.RequireCredentials(); err != nil {
		t.Errorf("Expected no error with all credentials, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		wantError bool
	}{
		{
			name:      "defaults",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "empty base URL",
			modify:    func(c *Config) { c.API.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "non-http base URL",
			modify:    func(c *Config) { c.API.BaseURL = "ftp://example.com" },
			wantError: true,
		},
		{
			name:      "zero timeout",
			modify:    func(c *Config) { c.API.Timeout = 0 },
			wantError: true,
		},
		{
			name:      "negative safety margin",
			modify:    func(c *Config) { c.RateLimit.SafetyMargin = -time.Second },
			wantError: true,
		},
		{
			name: "pacing without window",
			modify: func(c *Config) {
				c.RateLimit.RequestsPerWindow = 10
				c.RateLimit.Window = 0
			},
			wantError: true,
		},
		{
			name:      "invalid log level",
			modify:    func(c *Config) { c.Logging.Level = "chatty" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.API.BaseURL = "http://localhost:8080"
	config.RateLimit.RequestsPerWindow = 25
	config.Logging.Level = "warn"

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected config file permissions 0600, got %v", info.Mode().Perm())
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.API.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected base URL to round trip, got %s", loaded.API.BaseURL)
	}
	if loaded.RateLimit.RequestsPerWindow != 25 {
		t.Errorf("Expected requests per window 25, got %d", loaded.RateLimit.RequestsPerWindow)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", loaded.Logging.Level)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearCredentialEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `
twitter:
  consumer_key: file-key
api:
  base_url: http://file.example.com
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv(EnvConsumerKey, "env-key")
	t.Setenv("TWITTERWIPE_LOG_LEVEL", "")

	config, err := Load(configPath, map[string]interface{}{
		"log-level": "debug",
	})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if config.Twitter.ConsumerKey != "env-key" {
		t.Errorf("Expected environment to override file, got %s", config.Twitter.ConsumerKey)
	}
	if config.API.BaseURL != "http://file.example.com" {
		t.Errorf("Expected file to override defaults, got %s", config.API.BaseURL)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected flags to override everything, got %s", config.Logging.Level)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "broken.yaml")
	if err := os.WriteFile(configPath, []byte("api: [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(configPath, nil); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
