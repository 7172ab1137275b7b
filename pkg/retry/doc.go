// Package retry re-runs calls that the platform rejected with a rate limit.
//
// A rate limited call carries the time at which the quota resets. Do sleeps
// until that time, rounded up to the millisecond, plus a one second safety
// margin and then runs the very same call again. A reset that has already
// passed still costs the margin. Every other error is returned to the caller
// untouched, and there is no cap on the number of attempts.
//
// Basic usage:
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return client.DeleteTweet(ctx, id)
//	}, nil)
//
// Tests inject a clock through Config.Now and Config.Sleep so that waits
// are recorded instead of slept.
package retry
