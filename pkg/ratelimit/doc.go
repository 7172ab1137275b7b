// Package ratelimit paces outgoing API requests on the client side.
//
// The platform's own rate limit responses remain authoritative and are
// handled by package retry. This limiter only keeps a long run from
// hammering the API in the first place: when rate_limit.requests_per_window
// is set, at most that many requests are issued in any sliding window.
//
// Usage:
//
//	// 50 requests per 15 minutes, or Unlimited when n is 0
//	limiter := ratelimit.New(n, 15*time.Minute)
//
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// Proceed with request
package ratelimit
