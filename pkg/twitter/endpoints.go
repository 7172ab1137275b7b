package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"twitterwipe/pkg/models"
)

const (
	// BaseURL is the base URL for the Twitter API
	BaseURL = "https://api.twitter.com"

	// MeEndpoint returns the authenticated user
	MeEndpoint = "/2/users/me"

	// UserTweetsEndpoint is the endpoint pattern for a user's own tweets
	UserTweetsEndpoint = "/2/users/%s/tweets"

	// LikedTweetsEndpoint is the endpoint pattern for a user's liked tweets
	LikedTweetsEndpoint = "/2/users/%s/liked_tweets"

	// TweetEndpoint is the endpoint pattern for a single tweet
	TweetEndpoint = "/2/tweets/%s"

	// LikeEndpoint is the endpoint pattern for removing a like
	LikeEndpoint = "/2/users/%s/likes/%s"

	// MinPageSize and MaxPageSize bound max_results on timeline endpoints
	MinPageSize = 5
	MaxPageSize = 100

	// timeFormat is the only datetime layout the API accepts in query params
	timeFormat = "2006-01-02T15:04:05Z"
)

// UserTweetsPath returns the timeline path for userID
func UserTweetsPath(userID string) string {
	return fmt.Sprintf(UserTweetsEndpoint, url.PathEscape(userID))
}

// LikedTweetsPath returns the liked tweets path for userID
func LikedTweetsPath(userID string) string {
	return fmt.Sprintf(LikedTweetsEndpoint, url.PathEscape(userID))
}

// TweetPath returns the path of a single tweet
func TweetPath(tweetID string) string {
	return fmt.Sprintf(TweetEndpoint, url.PathEscape(tweetID))
}

// LikePath returns the path of the like userID placed on tweetID
func LikePath(userID, tweetID string) string {
	return fmt.Sprintf(LikeEndpoint, url.PathEscape(userID), url.PathEscape(tweetID))
}

// TimelineQuery builds the query string for a listing call. The time range
// is only encoded when withTimeRange is set, since the liked tweets
// endpoint rejects it.
func TimelineQuery(req models.PageRequest, withTimeRange bool) url.Values {
	limit := req.MaxResults
	if limit <= 0 {
		limit = MaxPageSize
	} else if limit < MinPageSize {
		limit = MinPageSize
	} else if limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := url.Values{}
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("tweet.fields", "created_at")

	if withTimeRange {
		if req.StartTime != nil {
			params.Set("start_time", FormatTime(*req.StartTime))
		}
		if req.EndTime != nil {
			params.Set("end_time", FormatTime(*req.EndTime))
		}
	}
	if req.Cursor != "" {
		params.Set("pagination_token", req.Cursor)
	}
	return params
}

// FormatTime renders t the way the API expects in query parameters
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
