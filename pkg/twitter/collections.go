package twitter

import (
	"context"

	"twitterwipe/pkg/models"
)

// Timeline is the collection of tweets the authenticated user posted.
// Applying an item deletes the tweet.
type Timeline struct {
	client *Client
}

// NewTimeline returns the own-tweets collection backed by c
func NewTimeline(c *Client) *Timeline {
	return &Timeline{client: c}
}

func (t *Timeline) Kind() string { return "tweet" }
func (t *Timeline) Verb() string { return "Deleting" }

// SupportsTimeRange reports that the timeline endpoint filters by date
func (t *Timeline) SupportsTimeRange() bool { return true }

func (t *Timeline) FetchPage(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	return t.client.UserTweets(ctx, req)
}

func (t *Timeline) Apply(ctx context.Context, id string) error {
	return t.client.DeleteTweet(ctx, id)
}

// Likes is the collection of tweets userID liked. Applying an item
// removes the like.
type Likes struct {
	client *Client
	userID string
}

// NewLikes returns the liked-tweets collection of userID backed by c
func NewLikes(c *Client, userID string) *Likes {
	return &Likes{client: c, userID: userID}
}

func (l *Likes) Kind() string { return "tweet" }
func (l *Likes) Verb() string { return "Unliking" }

// SupportsTimeRange reports that the liked tweets endpoint has no date filter
func (l *Likes) SupportsTimeRange() bool { return false }

func (l *Likes) FetchPage(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	return l.client.LikedTweets(ctx, req)
}

func (l *Likes) Apply(ctx context.Context, id string) error {
	return l.client.Unlike(ctx, l.userID, id)
}
