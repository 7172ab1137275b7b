package retry

import (
	"context"
	"fmt"
	"time"

	errs "twitterwipe/pkg/errors"
	"twitterwipe/pkg/logger"
)

// DefaultSafetyMargin is added to every server-declared reset time
const DefaultSafetyMargin = time.Second

// Operation is a call that may fail with a rate limit error
type Operation func(ctx context.Context) error

// OperationWithResult is a call that returns a result and may fail with a
// rate limit error
type OperationWithResult[T any] func(ctx context.Context) (T, error)

// Config holds retry configuration
type Config struct {
	// SafetyMargin is added to the reset time and is the minimum wait
	SafetyMargin time.Duration
	// Now returns the current time
	Now func() time.Time
	// Sleep blocks for d or until ctx is done
	Sleep func(ctx context.Context, d time.Duration) error
	// OnWait is called before each sleep
	OnWait func(attempt int, wait time.Duration, resetAt time.Time)
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns a retry configuration using the wall clock
func DefaultConfig() *Config {
	return &Config{
		SafetyMargin: DefaultSafetyMargin,
		Now:          time.Now,
		Sleep:        Wait,
		Logger:       logger.GetLogger(),
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.Sleep == nil {
		out.Sleep = Wait
	}
	if out.SafetyMargin < 0 {
		out.SafetyMargin = 0
	}
	return &out
}

// WaitDuration computes how long to sleep before retrying a call that was
// rate limited until resetAt. The remaining time is rounded up to the
// millisecond and the margin added; a reset already in the past yields
// exactly the margin.
func WaitDuration(resetAt, now time.Time, margin time.Duration) time.Duration {
	remaining := resetAt.Sub(now)
	if remaining > 0 && remaining%time.Millisecond != 0 {
		remaining = remaining.Truncate(time.Millisecond) + time.Millisecond
	}

	wait := remaining + margin
	if wait < margin {
		return margin
	}
	return wait
}

// Do runs op until it succeeds or fails with an error that is not a rate
// limit. Rate limited attempts sleep until the declared reset plus the
// safety margin and then re-run the same op. There is no attempt cap.
func Do(ctx context.Context, op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.withDefaults()

	attempt := 0
	for {
		attempt++

		if cfg.Logger != nil && attempt > 1 {
			cfg.Logger.DebugWithFields("retrying operation", map[string]interface{}{
				"attempt": attempt,
			})
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		resetAt, ok := errs.RateLimitReset(err)
		if !ok {
			return err
		}

		wait := WaitDuration(resetAt, cfg.Now(), cfg.SafetyMargin)

		if cfg.OnWait != nil {
			cfg.OnWait(attempt, wait, resetAt)
		}

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields(fmt.Sprintf("rate limited; reset in %s seconds - sleeping", formatSeconds(wait)), map[string]interface{}{
				"attempt":  attempt,
				"wait_ms":  wait.Milliseconds(),
				"reset_at": resetAt,
			})
		}

		if err := cfg.Sleep(ctx, wait); err != nil {
			if cfg.Logger != nil {
				cfg.Logger.WarnWithFields("retry cancelled", map[string]interface{}{
					"attempt": attempt,
					"reason":  err.Error(),
				})
			}
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](ctx context.Context, op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	}, cfg)

	return result, err
}

// Retrier provides a reusable retry mechanism
type Retrier struct {
	config *Config
}

// NewRetrier creates a new retrier with the given configuration
func NewRetrier(cfg *Config) *Retrier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Retrier{config: cfg}
}

// Do executes an operation with retry logic
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	return Do(ctx, op, r.config)
}

// WithLogger returns a new retrier logging to l
func (r *Retrier) WithLogger(l logger.Logger) *Retrier {
	newConfig := *r.config
	newConfig.Logger = l
	return &Retrier{config: &newConfig}
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// formatSeconds renders d in seconds without trailing zeros, e.g. 31 or 1.5
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%g", float64(d.Milliseconds())/1000)
}
