package models

import "time"

// MaxResults is the page size requested from every listing endpoint
const MaxResults = 100

// Item is one entry of a paginated collection: a tweet the user posted or
// a tweet the user liked.
type Item struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Page is one listing response. An empty NextCursor marks the last page.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Last reports whether no further pages follow this one
func (p *Page) Last() bool {
	return p.NextCursor == ""
}

// PageRequest describes one listing call
type PageRequest struct {
	UserID     string
	MaxResults int
	StartTime  *time.Time
	EndTime    *time.Time
	Cursor     string
}

// User is the authenticated account
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
