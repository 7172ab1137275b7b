// Package logger provides structured logging for twitterwipe.
//
// It wraps zerolog behind a small Logger interface so the deletion engine,
// the retry loop and the API client can log with fields without importing
// zerolog directly. Console output is human readable; when a log file is
// configured the same events are appended to it as JSON lines.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.Info("starting")
//	logger.WithField("tweet_id", id).Info("Deleting tweet")
//
// Tests use NewTestLogger, which captures every message for assertions:
//
//	tl := logger.NewTestLogger()
//	engine := wiper.New(coll, wiper.WithLogger(tl))
//	...
//	assert.True(t, tl.HasMessagePrefix("Deleting tweet"))
package logger
