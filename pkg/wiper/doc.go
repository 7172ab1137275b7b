// Package wiper is the paginated deletion engine.
//
// An Engine walks a Collection page by page and applies the collection's
// destructive action to each item in cursor order, one at a time. When the
// platform answers with a rate limit, the engine sleeps until the declared
// reset plus a one second margin and retries the same item; listing calls
// are treated the same way. Any other failure ends the run.
//
//	engine := wiper.New(twitter.NewTimeline(client), wiper.WithLogger(log))
//	result, err := engine.Run(ctx, wiper.Options{
//		TargetUserID: me.ID,
//		StartTime:    &start,
//		DryRun:       true,
//	})
//
// Options are validated before any call is made.
package wiper
