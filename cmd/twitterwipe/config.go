package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"twitterwipe/pkg/auth"
	"twitterwipe/pkg/ui"
)

const defaultConfigPath = ".twitterwipe.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage twitterwipe configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables and .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.twitterwipe.yaml' in the current directory unless
a different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging every source.

Credentials are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the configuration and report every problem found.

Missing credentials are reported as warnings, since they may come from
secure storage at run time.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# twitterwipe configuration file
#
# Credentials may also come from TWITTER_CONSUMER_KEY, TWITTER_CONSUMER_SECRET,
# TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET, from a .env file, or from
# 'twitterwipe auth login'. Prefer those over storing secrets here.

twitter:
  consumer_key: ""
  consumer_secret: ""
  access_token: ""
  access_secret: ""
  # Stored credential set to use (see 'twitterwipe auth status')
  account: ""

api:
  base_url: "https://api.twitter.com"
  timeout: 30s

rate_limit:
  # Added to every reset time announced by the API
  safety_margin: 1s
  # Client-side pacing; 0 disables it and relies on the API's limits
  requests_per_window: 0
  window: 15m

logging:
  # debug, info, warn, error
  level: "info"
  # Optional JSON log file
  file: ""
  no_color: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo overwrite, first remove the existing file:\n  rm %s\n", path)
		return errReported
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "1. Store credentials with 'twitterwipe auth login' or set the TWITTER_* variables")
	fmt.Fprintln(out, "2. Run 'twitterwipe config validate' to check the configuration")
	fmt.Fprintln(out, "3. Preview with 'twitterwipe delete --dry-run'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	display := *cfg
	masked := auth.Sanitize(&auth.Credentials{
		ConsumerKey:    cfg.Twitter.ConsumerKey,
		ConsumerSecret: cfg.Twitter.ConsumerSecret,
		AccessToken:    cfg.Twitter.AccessToken,
		AccessSecret:   cfg.Twitter.AccessSecret,
	})
	display.Twitter.ConsumerKey = maskIfSet(cfg.Twitter.ConsumerKey, masked.ConsumerKey)
	display.Twitter.ConsumerSecret = maskIfSet(cfg.Twitter.ConsumerSecret, masked.ConsumerSecret)
	display.Twitter.AccessToken = maskIfSet(cfg.Twitter.AccessToken, masked.AccessToken)
	display.Twitter.AccessSecret = maskIfSet(cfg.Twitter.AccessSecret, masked.AccessSecret)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (TWITTER_*, TWITTERWIPE_*) and .env files")
	if configFile != "" {
		fmt.Fprintf(out, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "3. Configuration file: (searched in default locations)")
	}
	fmt.Fprintln(out, "4. Default values")
	return nil
}

func maskIfSet(raw, masked string) string {
	if raw == "" {
		return ""
	}
	return masked
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err)
		return errReported
	}

	out := cmd.OutOrStdout()
	var problems []string
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors")
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return errReported
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		ui.PrintWarning("Credentials not configured")
		for _, name := range missing {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		fmt.Fprintln(out)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  API base URL: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  Timeout: %s\n", cfg.API.Timeout)
	fmt.Fprintf(out, "  Safety margin: %s\n", cfg.RateLimit.SafetyMargin)
	if cfg.RateLimit.RequestsPerWindow > 0 {
		fmt.Fprintf(out, "  Client pacing: %d requests per %s\n", cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)
	} else {
		fmt.Fprintln(out, "  Client pacing: disabled")
	}
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
