// Package twitter is a minimal client for the Twitter v2 API covering the
// calls twitterwipe needs: the authenticated user, the user's own tweets,
// the user's liked tweets, deleting a tweet and removing a like.
//
// Requests are signed with OAuth 1.0a user-context credentials through
// github.com/dghubble/oauth1. Error statuses are mapped onto pkg/errors;
// a 429 becomes a rate limit error whose ResetAt comes from the
// x-rate-limit-reset header.
//
// Example usage:
//
//	client := twitter.NewClient(cfg, logger.GetLogger())
//
//	me, err := client.Me(ctx)
//	if err != nil {
//	    return err
//	}
//
//	page, err := client.UserTweets(ctx, models.PageRequest{UserID: me.ID, MaxResults: 100})
//
// Timeline and Likes wrap the client as collections the deletion engine
// can walk.
package twitter
