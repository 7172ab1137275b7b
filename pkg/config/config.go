package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables holding the four OAuth 1.0a credentials
const (
	EnvConsumerKey    = "TWITTER_CONSUMER_KEY"
	EnvConsumerSecret = "TWITTER_CONSUMER_SECRET"
	EnvAccessToken    = "TWITTER_ACCESS_TOKEN"
	EnvAccessSecret   = "TWITTER_ACCESS_SECRET"
)

// Config holds all configuration options for twitterwipe
type Config struct {
	// Twitter API credentials
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// API endpoint settings
	API APIConfig `yaml:"api" json:"api"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds the OAuth 1.0a user-context credentials
type TwitterConfig struct {
	ConsumerKey    string `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" json:"consumer_secret"`
	AccessToken    string `yaml:"access_token" json:"access_token"`
	AccessSecret   string `yaml:"access_secret" json:"access_secret"`
	// Account selects a stored credential set (see 'twitterwipe auth')
	Account string `yaml:"account" json:"account"`
}

// APIConfig holds HTTP client settings
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// SafetyMargin is added to every server-declared reset time
	SafetyMargin time.Duration `yaml:"safety_margin" json:"safety_margin"`
	// RequestsPerWindow enables client-side pacing when positive
	RequestsPerWindow int           `yaml:"requests_per_window" json:"requests_per_window"`
	Window            time.Duration `yaml:"window" json:"window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.twitter.com",
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			SafetyMargin:      time.Second,
			RequestsPerWindow: 0,
			Window:            15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvConsumerKey); v != "" {
		c.Twitter.ConsumerKey = v
	}
	if v := os.Getenv(EnvConsumerSecret); v != "" {
		c.Twitter.ConsumerSecret = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv(EnvAccessSecret); v != "" {
		c.Twitter.AccessSecret = v
	}
	if v := os.Getenv("TWITTERWIPE_ACCOUNT"); v != "" {
		c.Twitter.Account = v
	}

	if v := os.Getenv("TWITTERWIPE_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TWITTERWIPE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TWITTERWIPE_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}

	if v := os.Getenv("TWITTERWIPE_REQUESTS_PER_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TWITTERWIPE_REQUESTS_PER_WINDOW: %w", err)
		}
		c.RateLimit.RequestsPerWindow = n
	}

	if v := os.Getenv("TWITTERWIPE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TWITTERWIPE_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".twitterwipe.yaml",
		".twitterwipe.yml",
		filepath.Join(home, ".config", "twitterwipe", "config.yaml"),
		filepath.Join(home, ".config", "twitterwipe", "config.yml"),
		filepath.Join(home, ".twitterwipe.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are checked
// separately by MissingCredentials since commands like 'config show' run
// without them.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api base URL is required"))
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("api base URL must be http(s): %s", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}

	if c.RateLimit.SafetyMargin < 0 {
		errs = append(errs, errors.New("rate limit safety margin cannot be negative"))
	}
	if c.RateLimit.RequestsPerWindow < 0 {
		errs = append(errs, errors.New("requests per window cannot be negative"))
	}
	if c.RateLimit.RequestsPerWindow > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive when pacing is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// MissingCredentials returns the environment variable names of every
// credential that is not set, in a stable order.
func (c *Config) MissingCredentials() []string {
	var missing []string
	pairs := []struct {
		name  string
		value string
	}{
		{EnvConsumerKey, c.Twitter.ConsumerKey},
		{EnvConsumerSecret, c.Twitter.ConsumerSecret},
		{EnvAccessToken, c.Twitter.AccessToken},
		{EnvAccessSecret, c.Twitter.AccessSecret},
	}
	for _, p := range pairs {
		if strings.TrimSpace(p.value) == "" {
			missing = append(missing, p.name)
		}
	}
	return missing
}

// RequireCredentials returns one joined error naming every missing
// credential, or nil when all four are present.
func (c *Config) RequireCredentials() error {
	var errs []error
	for _, name := range c.MissingCredentials() {
		errs = append(errs, fmt.Errorf("missing required %s environment variable", name))
	}
	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Logging.NoColor = true
	}
	if account, ok := flags["account"].(string); ok && account != "" {
		c.Twitter.Account = account
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if rpw, ok := flags["requests-per-window"].(int); ok && rpw > 0 {
		c.RateLimit.RequestsPerWindow = rpw
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".twitterwipe.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
