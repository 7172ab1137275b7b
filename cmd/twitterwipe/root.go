package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"twitterwipe/pkg/auth"
	"twitterwipe/pkg/config"
	"twitterwipe/pkg/logger"
	"twitterwipe/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
)

// errReported is returned after the problem was already printed, so
// Execute only sets the exit code
var errReported = errors.New("error already reported")

// Seams replaced in tests
var (
	newCredentialManager = auth.NewManager
	interactive          = ui.IsTerminal
	logOutput            io.Writer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twitterwipe",
	Short: "Bulk delete your tweets or unlike your liked tweets",
	Long: `twitterwipe deletes every tweet you posted, or removes every like you
gave, through the Twitter v2 API.

Features:
  - Optional creation time window for deletes
  - Dry run mode that lists without changing anything
  - Waits out rate limits automatically and resumes where it stopped
  - Credentials from the environment, a .env file, the config file,
    or secure storage ('twitterwipe auth login')

Deletions cannot be undone.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			ui.PrintError("Error", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.twitterwipe.yaml or ~/.config/twitterwipe/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`twitterwipe {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig merges the global flags with extra into the configuration
func loadConfig(extra map[string]interface{}) (*config.Config, error) {
	flags := map[string]interface{}{
		"log-level": logLevel,
		"no-color":  noColor,
	}
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger initializes the global logger and returns a child carrying
// the run id and command name
func setupLogger(cfg *config.Config, command string) (logger.Logger, error) {
	var log logger.Logger
	if logOutput != nil {
		l, err := logger.NewWithWriter(&cfg.Logging, logOutput)
		if err != nil {
			return nil, err
		}
		log = l
	} else {
		if err := logger.Initialize(&cfg.Logging); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = logger.GetLogger()
	}

	return log.WithFields(map[string]interface{}{
		"run_id":  uuid.NewString(),
		"command": command,
	}), nil
}

// resolveCredentials fills credentials missing from the environment and
// config file from secure storage, then reports every one still missing
func resolveCredentials(cfg *config.Config, log logger.Logger) error {
	if len(cfg.MissingCredentials()) > 0 {
		manager, err := newCredentialManager()
		if err != nil {
			log.WithError(err).Debug("credential storage unavailable")
		} else if creds, err := manager.Retrieve(cfg.Twitter.Account); err == nil {
			creds.ApplyTo(&cfg.Twitter)
			log.WithField("account", creds.Name).Debug("using stored credentials")
		}
	}

	missing := cfg.MissingCredentials()
	for _, name := range missing {
		ui.PrintError(fmt.Sprintf("Missing required %s environment variable", name))
	}
	if len(missing) > 0 {
		return errReported
	}
	return nil
}
