package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"twitterwipe/pkg/auth"
	"twitterwipe/pkg/config"
	"twitterwipe/pkg/twitter"
	"twitterwipe/pkg/ui"
)

var verifyCredentials bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Twitter API credentials",
	Long: `Manage stored Twitter API credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

Credentials in the environment (TWITTER_*) or the config file always take
precedence over stored ones.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store the four OAuth credentials securely",
	Long: `Store the consumer key and secret and the access token and secret.

Secret values are read without echo when stdin is a terminal. Without a
name the credentials are stored as "default".`,
	Example: `  # Interactive login
  twitterwipe auth login

  # Store a second account
  twitterwipe auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored credentials",
	Long: `List every stored credential set with masked values.

With --verify the active credentials are used to fetch the authenticated
user, confirming they work.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&verifyCredentials, "verify", false, "call the API with the active credentials")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	name := auth.DefaultName
	if len(args) > 0 {
		name = args[0]
	}

	out := cmd.OutOrStdout()
	auth.ShowCredentialGuide(out)

	prompter := ui.NewPrompter(cmd.InOrStdin(), out)
	if existing, _ := manager.Retrieve(name); existing != nil && interactive(cmd.InOrStdin()) {
		ok, err := prompter.Confirm(fmt.Sprintf("Credentials '%s' already exist. Replace them?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborting")
			return nil
		}
	}

	creds := &auth.Credentials{Name: name}
	fields := []struct {
		prompt string
		secret bool
		target *string
	}{
		{"API Key (" + config.EnvConsumerKey + ")", false, &creds.ConsumerKey},
		{"API Key Secret (" + config.EnvConsumerSecret + ")", true, &creds.ConsumerSecret},
		{"Access Token (" + config.EnvAccessToken + ")", false, &creds.AccessToken},
		{"Access Token Secret (" + config.EnvAccessSecret + ")", true, &creds.AccessSecret},
	}
	for _, f := range fields {
		read := prompter.Line
		if f.secret {
			read = prompter.Secret
		}
		value, err := read(f.prompt)
		if err != nil {
			return err
		}
		*f.target = value
	}

	if err := manager.Store(creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	ui.PrintSuccess("Credentials saved: " + name)
	if name != auth.DefaultName {
		ui.PrintInfo("Use them with", "--account "+name)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	name := auth.DefaultName
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored credentials named " + name)
			return nil
		}
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	ui.PrintSuccess("Credentials removed: " + name)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := newCredentialManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	list, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		ui.PrintInfo("No stored credentials", "use 'twitterwipe auth login' to add some")
	} else {
		ui.PrintHighlight("Stored Credentials")
		for i, creds := range list {
			s := auth.Sanitize(creds)
			fmt.Fprintf(out, "%d. %s\n", i+1, s.Name)
			fmt.Fprintf(out, "   Consumer Key:    %s\n", s.ConsumerKey)
			fmt.Fprintf(out, "   Consumer Secret: %s\n", s.ConsumerSecret)
			fmt.Fprintf(out, "   Access Token:    %s\n", s.AccessToken)
			fmt.Fprintf(out, "   Access Secret:   %s\n", s.AccessSecret)
			if !s.LastModified.IsZero() {
				fmt.Fprintf(out, "   Last Modified:   %s\n", s.LastModified.Format("2006-01-02 15:04:05"))
			}
		}
	}

	if !verifyCredentials {
		return nil
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	log, err := setupLogger(cfg, "auth status")
	if err != nil {
		return err
	}
	if err := resolveCredentials(cfg, log); err != nil {
		return err
	}

	me, err := twitter.NewClient(cfg, log).Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("credentials rejected: %w", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Authenticated as @%s (%s)", me.Username, me.ID))
	return nil
}
