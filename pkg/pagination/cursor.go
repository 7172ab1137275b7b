// Package pagination walks a cursor-paginated collection one item at a
// time.
package pagination

import (
	"context"
	"fmt"

	"twitterwipe/pkg/logger"
	"twitterwipe/pkg/models"
	"twitterwipe/pkg/retry"
)

// FetchFunc performs one listing call
type FetchFunc func(ctx context.Context, req models.PageRequest) (*models.Page, error)

// Cursor is a lazy, forward-only sequence of items. The first page is
// fetched on the first call to Next and later pages on demand, so at most
// one page is buffered. A Cursor cannot be restarted.
type Cursor struct {
	fetch   FetchFunc
	req     models.PageRequest
	retrier *retry.Retrier
	logger  logger.Logger

	buf     []models.Item
	pos     int
	started bool
	done    bool
	pages   int
}

// New creates a cursor over fetch. Filters in req are forwarded verbatim
// to every page request; MaxResults is forced to models.MaxResults and the
// cursor token is managed internally. Page fetches go through r so a rate
// limited listing call waits and resumes at the same position.
func New(fetch FetchFunc, req models.PageRequest, r *retry.Retrier) *Cursor {
	if r == nil {
		r = retry.NewRetrier(nil)
	}
	req.MaxResults = models.MaxResults
	req.Cursor = ""

	return &Cursor{
		fetch:   fetch,
		req:     req,
		retrier: r,
		logger:  logger.GetLogger(),
	}
}

// WithLogger sets the logger used for page fetch messages
func (c *Cursor) WithLogger(l logger.Logger) *Cursor {
	c.logger = l
	return c
}

// Next returns the next item. The boolean is false once the collection is
// exhausted; from then on Next keeps returning false without fetching.
func (c *Cursor) Next(ctx context.Context) (models.Item, bool, error) {
	for c.pos >= len(c.buf) {
		if c.done {
			return models.Item{}, false, nil
		}
		if err := c.fetchPage(ctx); err != nil {
			return models.Item{}, false, err
		}
	}

	item := c.buf[c.pos]
	c.pos++
	return item, true, nil
}

// Pages reports how many listing calls have succeeded
func (c *Cursor) Pages() int {
	return c.pages
}

func (c *Cursor) fetchPage(ctx context.Context) error {
	if c.started && c.req.Cursor == "" {
		c.done = true
		return nil
	}
	c.started = true

	req := c.req
	c.logger.DebugWithFields("Fetching page", map[string]interface{}{
		"user_id": req.UserID,
		"cursor":  req.Cursor,
		"page":    c.pages + 1,
	})

	var page *models.Page
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		page, fetchErr = c.fetch(ctx, req)
		return fetchErr
	})
	if err != nil {
		return fmt.Errorf("fetch page %d: %w", c.pages+1, err)
	}
	if page == nil {
		page = &models.Page{}
	}

	c.pages++
	c.buf = page.Items
	c.pos = 0
	c.req.Cursor = page.NextCursor

	c.logger.DebugWithFields("Page fetched", map[string]interface{}{
		"items":    len(page.Items),
		"has_next": !page.Last(),
	})
	return nil
}
