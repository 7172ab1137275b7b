package wiper

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidOptions is wrapped by every validation failure
var ErrInvalidOptions = errors.New("invalid options")

// ErrorPolicy decides what happens when the action on one item fails
type ErrorPolicy string

const (
	// PolicyAbort stops the run on the first failed item
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip logs items that no longer exist and moves on. Any other
	// failure still aborts.
	PolicySkip ErrorPolicy = "skip"
)

// ParseErrorPolicy parses a policy name; the empty string means abort
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("%w: unknown error policy %q (want abort or skip)", ErrInvalidOptions, s)
	}
}

// Options configures one run of the engine
type Options struct {
	// DryRun lists and logs every item without applying the action
	DryRun bool
	// StartTime and EndTime bound the items by creation time, inclusive
	StartTime *time.Time
	EndTime   *time.Time
	// TargetUserID is the account whose collection is walked
	TargetUserID string
	// Target is the display name of the account, used in logs
	Target string
	// OnError selects the failure policy; empty means abort
	OnError ErrorPolicy
}

// HasTimeRange reports whether either bound is set
func (o Options) HasTimeRange() bool {
	return o.StartTime != nil || o.EndTime != nil
}

// Validate reports every problem with the options at once
func (o Options) Validate() error {
	var errs []error

	if strings.TrimSpace(o.TargetUserID) == "" {
		errs = append(errs, fmt.Errorf("%w: target user id is required", ErrInvalidOptions))
	}
	if o.StartTime != nil && o.EndTime != nil && o.StartTime.After(*o.EndTime) {
		errs = append(errs, fmt.Errorf("%w: start time %s is after end time %s", ErrInvalidOptions,
			o.StartTime.Format(time.RFC3339), o.EndTime.Format(time.RFC3339)))
	}
	if _, err := ParseErrorPolicy(string(o.OnError)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
