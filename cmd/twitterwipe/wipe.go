package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"twitterwipe/pkg/retry"
	"twitterwipe/pkg/twitter"
	"twitterwipe/pkg/ui"
	"twitterwipe/pkg/wiper"
)

// timeLayouts are tried in order; layouts without a zone are read as UTC
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// wipeMode describes one destructive command
type wipeMode struct {
	name       string
	short      string
	long       string
	example    string
	action     string
	timeRange  bool
	collection func(c *twitter.Client, userID string) wiper.Collection
}

// wipeFlags holds the flags shared by delete and unlike
type wipeFlags struct {
	dryRun    bool
	yes       bool
	progress  bool
	startTime string
	endTime   string
	onError   string
	account   string
}

var deleteMode = wipeMode{
	name:  "delete",
	short: "Delete your tweets",
	long: `Delete every tweet posted by the authenticated account, newest first.

Use --start-time and --end-time to limit deletion to tweets created in a
window. Both bounds are inclusive. Times without a zone are read as UTC.`,
	example: `  # See what would be deleted
  twitterwipe delete --dry-run

  # Delete tweets from 2019
  twitterwipe delete -s 2019-01-01 -e 2019-12-31T23:59:59

  # Delete without the confirmation prompt
  twitterwipe delete --yes`,
	action:    "delete all tweets",
	timeRange: true,
	collection: func(c *twitter.Client, _ string) wiper.Collection {
		return twitter.NewTimeline(c)
	},
}

var unlikeMode = wipeMode{
	name:  "unlike",
	short: "Unlike every tweet you liked",
	long: `Remove every like given by the authenticated account.

The liked tweets endpoint cannot filter by time, so --start-time and
--end-time are rejected.`,
	example: `  # See which likes would be removed
  twitterwipe unlike --dry-run

  # Remove all likes, skipping tweets that no longer exist
  twitterwipe unlike --on-error skip`,
	action: "unlike all tweets",
	collection: func(c *twitter.Client, userID string) wiper.Collection {
		return twitter.NewLikes(c, userID)
	},
}

func init() {
	rootCmd.AddCommand(newWipeCommand(deleteMode))
	rootCmd.AddCommand(newWipeCommand(unlikeMode))
}

func newWipeCommand(m wipeMode) *cobra.Command {
	f := &wipeFlags{}
	cmd := &cobra.Command{
		Use:     m.name,
		Short:   m.short,
		Long:    m.long,
		Example: m.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWipe(cmd, m, f)
		},
	}

	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "d", false, "list what would be done without changing anything")
	cmd.Flags().StringVarP(&f.startTime, "start-time", "s", "", "only items created at or after this time (RFC3339 or YYYY-MM-DD[THH:MM:SS])")
	cmd.Flags().StringVarP(&f.endTime, "end-time", "e", "", "only items created at or before this time")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringVar(&f.onError, "on-error", string(wiper.PolicyAbort), "what to do when an item fails: abort or skip (skips items that no longer exist)")
	cmd.Flags().BoolVarP(&f.progress, "progress", "p", false, "show a progress line instead of one log line per item")
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "use a stored credential set")
	return cmd
}

// options converts the flags into engine options without a target
func (f *wipeFlags) options() (wiper.Options, error) {
	var opts wiper.Options
	var errs []error

	start, err := parseTime(f.startTime)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid --start-time: %w", err))
	}
	end, err := parseTime(f.endTime)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid --end-time: %w", err))
	}
	policy, err := wiper.ParseErrorPolicy(f.onError)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return opts, errors.Join(errs...)
	}

	opts = wiper.Options{
		DryRun:    f.dryRun,
		StartTime: start,
		EndTime:   end,
		OnError:   policy,
	}
	return opts, nil
}

// parseTime accepts RFC3339, a zone-less timestamp or a date. The empty
// string means no bound.
func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q (want RFC3339, 2006-01-02T15:04:05 or 2006-01-02)", s)
}

func runWipe(cmd *cobra.Command, m wipeMode, f *wipeFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}
	if !m.timeRange && opts.HasTimeRange() {
		return fmt.Errorf("%w: --start-time and --end-time are only supported by 'delete'", wiper.ErrInvalidOptions)
	}
	// Check everything but the target before touching the network
	probe := opts
	probe.TargetUserID = "pending"
	if err := probe.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(map[string]interface{}{"account": f.account})
	if err != nil {
		return err
	}
	if f.progress && (cfg.Logging.Level == "info" || cfg.Logging.Level == "debug") {
		cfg.Logging.Level = "warn"
	}
	log, err := setupLogger(cfg, m.name)
	if err != nil {
		return err
	}

	if err := resolveCredentials(cfg, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := twitter.NewClient(cfg, log)
	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	log = log.WithField("username", me.Username)
	if !f.progress {
		ui.PrintBanner()
	}

	if !f.yes {
		if !interactive(cmd.InOrStdin()) {
			return ui.ErrNotInteractive
		}
		prompter := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		ok, err := prompter.Confirm(ui.ConfirmQuestion(m.action, me.Username, opts.StartTime, opts.EndTime))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborting")
			return nil
		}
	}

	opts.TargetUserID = me.ID
	opts.Target = me.Username

	engineOpts := []wiper.EngineOption{
		wiper.WithLogger(log),
		wiper.WithRetryConfig(&retry.Config{SafetyMargin: cfg.RateLimit.SafetyMargin}),
	}
	var tracker *ui.Tracker
	if f.progress {
		tracker = ui.NewTracker(cmd.OutOrStdout(), "@"+me.Username, opts.DryRun)
		engineOpts = append(engineOpts, wiper.WithProgress(tracker.Update))
	}

	result, err := wiper.New(m.collection(client, me.ID), engineOpts...).Run(ctx, opts)
	if tracker != nil {
		tracker.Finish(result)
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	if tracker == nil {
		ui.PrintSuccess(summary(m, result, opts.DryRun))
	}
	return nil
}

func summary(m wipeMode, r *wiper.Result, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("Dry run complete: %d tweets would be affected by '%s'", r.Listed, m.name)
	}
	s := fmt.Sprintf("Finished '%s': %d of %d tweets done", m.name, r.Applied, r.Listed)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	return s
}
