package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "twitterwipe/pkg/errors"
	"twitterwipe/pkg/logger"
	"twitterwipe/pkg/models"
	"twitterwipe/pkg/retry"
)

// pagedSource serves total items in pages of size, recording every request
type pagedSource struct {
	total    int
	size     int
	requests []models.PageRequest
	// failAt makes the request with this cursor fail once with err
	failAt  string
	failErr error
	failed  bool
}

func (s *pagedSource) fetch(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	s.requests = append(s.requests, req)
	if s.failErr != nil && !s.failed && req.Cursor == s.failAt {
		s.failed = true
		return nil, s.failErr
	}

	start := 0
	if req.Cursor != "" {
		start, _ = strconv.Atoi(req.Cursor)
	}
	end := start + s.size
	if end > s.total {
		end = s.total
	}

	page := &models.Page{}
	for i := start; i < end; i++ {
		page.Items = append(page.Items, models.Item{ID: strconv.Itoa(i), Text: fmt.Sprintf("tweet %d", i)})
	}
	if end < s.total {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func testRetrier(sleeps *[]time.Duration) *retry.Retrier {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return retry.NewRetrier(&retry.Config{
		SafetyMargin: retry.DefaultSafetyMargin,
		Now:          func() time.Time { return now },
		Sleep: func(ctx context.Context, d time.Duration) error {
			*sleeps = append(*sleeps, d)
			now = now.Add(d)
			return nil
		},
		Logger: logger.NewTestLogger(),
	})
}

func drain(t *testing.T, c *Cursor) []models.Item {
	t.Helper()
	var items []models.Item
	for {
		item, ok, err := c.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

func TestCursorYieldsAllItemsInOrder(t *testing.T) {
	src := &pagedSource{total: 250, size: models.MaxResults}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps)).WithLogger(logger.NewTestLogger())

	items := drain(t, c)

	require.Len(t, items, 250)
	for i, item := range items {
		assert.Equal(t, strconv.Itoa(i), item.ID)
	}
	assert.Len(t, src.requests, 3)
	assert.Equal(t, 3, c.Pages())
	assert.Equal(t, []string{"", "100", "200"}, []string{src.requests[0].Cursor, src.requests[1].Cursor, src.requests[2].Cursor})
}

func TestCursorForwardsFilters(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &pagedSource{total: 150, size: models.MaxResults}
	var sleeps []time.Duration

	c := New(src.fetch, models.PageRequest{UserID: "42", StartTime: &start, EndTime: &end, MaxResults: 5, Cursor: "bogus"}, testRetrier(&sleeps))
	drain(t, c)

	for _, req := range src.requests {
		assert.Equal(t, "42", req.UserID)
		assert.Equal(t, models.MaxResults, req.MaxResults)
		assert.Same(t, &start, req.StartTime)
		assert.Same(t, &end, req.EndTime)
	}
	assert.Equal(t, "", src.requests[0].Cursor)
}

func TestCursorIsLazy(t *testing.T) {
	src := &pagedSource{total: 250, size: models.MaxResults}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	assert.Empty(t, src.requests)

	_, ok, err := c.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, src.requests, 1)
}

func TestCursorEmptyCollection(t *testing.T) {
	src := &pagedSource{total: 0, size: models.MaxResults}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	assert.Empty(t, drain(t, c))
	assert.Len(t, src.requests, 1)
}

func TestCursorSkipsEmptyIntermediatePage(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, req models.PageRequest) (*models.Page, error) {
		calls++
		switch req.Cursor {
		case "":
			return &models.Page{NextCursor: "b"}, nil
		case "b":
			return &models.Page{Items: []models.Item{{ID: "1"}}}, nil
		}
		return nil, errors.New("unexpected cursor")
	}
	var sleeps []time.Duration
	c := New(fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	items := drain(t, c)
	require.Len(t, items, 1)
	assert.Equal(t, 2, calls)
}

func TestCursorNotRestartable(t *testing.T) {
	src := &pagedSource{total: 3, size: models.MaxResults}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	drain(t, c)
	_, ok, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, src.requests, 1)
}

func TestCursorRateLimitedPageResumesSameCursor(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &pagedSource{
		total:   250,
		size:    models.MaxResults,
		failAt:  "100",
		failErr: errs.NewRateLimit(now.Add(30*time.Second), ""),
	}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	items := drain(t, c)

	assert.Len(t, items, 250)
	assert.Len(t, src.requests, 4)
	assert.Equal(t, "100", src.requests[1].Cursor)
	assert.Equal(t, "100", src.requests[2].Cursor)
	assert.Equal(t, []time.Duration{31 * time.Second}, sleeps)
	assert.Equal(t, 3, c.Pages())
}

func TestCursorPropagatesOtherErrors(t *testing.T) {
	authErr := errs.New(errs.ErrorTypeAuth, http.StatusUnauthorized, "bad token")
	src := &pagedSource{total: 250, size: models.MaxResults, failAt: "", failErr: authErr}
	var sleeps []time.Duration
	c := New(src.fetch, models.PageRequest{UserID: "42"}, testRetrier(&sleeps))

	_, ok, err := c.Next(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, authErr)
	assert.Empty(t, sleeps)
}
