package wiper

import (
	"context"
	"fmt"
	"time"

	errs "twitterwipe/pkg/errors"
	"twitterwipe/pkg/logger"
	"twitterwipe/pkg/models"
	"twitterwipe/pkg/pagination"
	"twitterwipe/pkg/retry"
)

// Collection is a paginated set of items and the destructive action that
// removes one of them
type Collection interface {
	// Kind is the noun used in logs, e.g. "tweet"
	Kind() string
	// Verb is the present participle used in logs, e.g. "Deleting"
	Verb() string
	FetchPage(ctx context.Context, req models.PageRequest) (*models.Page, error)
	Apply(ctx context.Context, id string) error
}

// TimeRangeSupporter is implemented by collections that can report
// whether their listing endpoint filters by creation time
type TimeRangeSupporter interface {
	SupportsTimeRange() bool
}

// Result summarizes a run
type Result struct {
	Listed   int
	Applied  int
	Skipped  int
	Pages    int
	Duration time.Duration
}

// ProgressFunc is called after every item with the running totals
type ProgressFunc func(item models.Item, r Result)

// Engine walks a collection and applies its action to every item
type Engine struct {
	coll     Collection
	logger   logger.Logger
	retryCfg *retry.Config
	progress ProgressFunc
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRetryConfig sets the rate limit retry configuration used for both
// page fetches and actions
func WithRetryConfig(cfg *retry.Config) EngineOption {
	return func(e *Engine) {
		e.retryCfg = cfg
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an engine for coll
func New(coll Collection, opts ...EngineOption) *Engine {
	e := &Engine{
		coll:     coll,
		logger:   logger.GetLogger(),
		retryCfg: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.retryCfg == nil {
		e.retryCfg = retry.DefaultConfig()
	}
	if e.logger == nil {
		e.logger = logger.GetLogger()
	}
	return e
}

// Run validates opts and then processes every item of the collection in
// order, one at a time. Rate limits are absorbed by waiting; any other
// failure ends the run, returning the totals reached so far.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := e.validate(opts); err != nil {
		return nil, err
	}
	policy, _ := ParseErrorPolicy(string(opts.OnError))

	retryCfg := *e.retryCfg
	retryCfg.Logger = e.logger
	now := retryCfg.Now
	if now == nil {
		now = time.Now
	}
	retrier := retry.NewRetrier(&retryCfg)

	log := e.logger.WithFields(map[string]interface{}{
		"user_id": opts.TargetUserID,
		"dry_run": opts.DryRun,
	})

	req := models.PageRequest{
		UserID:    opts.TargetUserID,
		StartTime: opts.StartTime,
		EndTime:   opts.EndTime,
	}
	cursor := pagination.New(e.coll.FetchPage, req, retrier).WithLogger(e.logger)

	start := now()
	result := &Result{}
	finish := func() {
		result.Pages = cursor.Pages()
		result.Duration = now().Sub(start)
	}

	for {
		item, ok, err := cursor.Next(ctx)
		if err != nil {
			finish()
			return result, fmt.Errorf("list %ss: %w", e.coll.Kind(), err)
		}
		if !ok {
			break
		}
		result.Listed++

		msg := fmt.Sprintf("%s %s %s: %s", e.coll.Verb(), e.coll.Kind(), item.ID, item.Text)
		if opts.DryRun {
			msg = "[dry run] " + msg
		}
		log.InfoWithFields(msg, map[string]interface{}{
			"tweet_id": item.ID,
		})

		if !opts.DryRun {
			id := item.ID
			err := retrier.Do(ctx, func(ctx context.Context) error {
				return e.coll.Apply(ctx, id)
			})
			switch {
			case err == nil:
				result.Applied++
			case policy == PolicySkip && errs.IsNotFound(err):
				result.Skipped++
				log.WithError(err).WarnWithFields("skipping "+e.coll.Kind(), map[string]interface{}{
					"tweet_id": id,
				})
			default:
				finish()
				return result, fmt.Errorf("%s %s %s: %w", e.coll.Verb(), e.coll.Kind(), id, err)
			}
		}

		if e.progress != nil {
			result.Pages = cursor.Pages()
			e.progress(item, *result)
		}
	}

	finish()
	log.InfoWithFields("Done", map[string]interface{}{
		"listed":   result.Listed,
		"applied":  result.Applied,
		"skipped":  result.Skipped,
		"pages":    result.Pages,
		"duration": result.Duration,
	})
	return result, nil
}

func (e *Engine) validate(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if s, ok := e.coll.(TimeRangeSupporter); ok && !s.SupportsTimeRange() && opts.HasTimeRange() {
		return fmt.Errorf("%w: a time range is not supported when %s", ErrInvalidOptions, lowerFirst(e.coll.Verb()))
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
