package twitter

import (
	"strings"
	"time"

	"twitterwipe/pkg/models"
)

// UserResponse is the body of GET /2/users/me
type UserResponse struct {
	Data   *models.User `json:"data"`
	Errors []APIError   `json:"errors,omitempty"`
}

// Tweet is one element of a timeline response
type Tweet struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// TimelineResponse is the body of the tweets and liked_tweets endpoints
type TimelineResponse struct {
	Data   []Tweet    `json:"data"`
	Meta   Meta       `json:"meta"`
	Errors []APIError `json:"errors,omitempty"`
}

// Meta carries pagination information
type Meta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
}

// DeleteResponse is the body of DELETE /2/tweets/:id
type DeleteResponse struct {
	Data struct {
		Deleted bool `json:"deleted"`
	} `json:"data"`
}

// UnlikeResponse is the body of DELETE /2/users/:id/likes/:tweet_id
type UnlikeResponse struct {
	Data struct {
		Liked bool `json:"liked"`
	} `json:"data"`
}

// APIError is an entry of the errors array, also used for problem
// details bodies returned with error statuses
type APIError struct {
	Title   string `json:"title,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// ErrorResponse is an error status body
type ErrorResponse struct {
	APIError
	Errors []APIError `json:"errors,omitempty"`
}

// Describe returns the most specific message in the body
func (e *ErrorResponse) Describe() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Title != "" {
		return e.Title
	}
	var parts []string
	for _, sub := range e.Errors {
		switch {
		case sub.Message != "":
			parts = append(parts, sub.Message)
		case sub.Detail != "":
			parts = append(parts, sub.Detail)
		}
	}
	return strings.Join(parts, "; ")
}

// Page converts a timeline response into a models.Page
func (r *TimelineResponse) Page() *models.Page {
	page := &models.Page{
		Items:      make([]models.Item, 0, len(r.Data)),
		NextCursor: r.Meta.NextToken,
	}
	for _, t := range r.Data {
		page.Items = append(page.Items, models.Item{ID: t.ID, Text: t.Text, CreatedAt: t.CreatedAt})
	}
	return page
}
