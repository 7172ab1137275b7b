package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"twitterwipe/pkg/config"
	errs "twitterwipe/pkg/errors"
	"twitterwipe/pkg/logger"
	"twitterwipe/pkg/models"
	"twitterwipe/pkg/ratelimit"
)

// DefaultResetWindow is assumed when a 429 carries no reset information
const DefaultResetWindow = 15 * time.Minute

// Client is an OAuth 1.0a user-context client for the Twitter v2 API
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    ratelimit.Limiter
	logger     logger.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithLimiter paces every request through l
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithClock sets the clock used when a 429 has no reset header
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client signing requests with the credentials in cfg
func NewClient(cfg *config.Config, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	base := &http.Client{Timeout: cfg.API.Timeout}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	oauthConfig := oauth1.NewConfig(cfg.Twitter.ConsumerKey, cfg.Twitter.ConsumerSecret)
	token := oauth1.NewToken(cfg.Twitter.AccessToken, cfg.Twitter.AccessSecret)

	httpClient := oauthConfig.Client(ctx, token)
	httpClient.Timeout = cfg.API.Timeout

	baseURL := strings.TrimRight(cfg.API.BaseURL, "/")
	if baseURL == "" {
		baseURL = BaseURL
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		limiter:    ratelimit.New(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window),
		logger:     log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp UserResponse
	if err := c.doJSON(ctx, http.MethodGet, MeEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch authenticated user: %w", err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return nil, errs.New(errs.ErrorTypeParsing, http.StatusOK, "response has no user data")
	}

	c.logger.DebugWithFields("fetched authenticated user", map[string]interface{}{
		"user_id":  resp.Data.ID,
		"username": resp.Data.Username,
	})
	return resp.Data, nil
}

// UserTweets lists one page of tweets posted by req.UserID, newest first
func (c *Client) UserTweets(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	return c.listTimeline(ctx, UserTweetsPath(req.UserID), TimelineQuery(req, true))
}

// LikedTweets lists one page of tweets liked by req.UserID. The endpoint
// has no time filter, so StartTime and EndTime are ignored.
func (c *Client) LikedTweets(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	return c.listTimeline(ctx, LikedTweetsPath(req.UserID), TimelineQuery(req, false))
}

func (c *Client) listTimeline(ctx context.Context, path string, query url.Values) (*models.Page, error) {
	var resp TimelineResponse
	if err := c.doJSON(ctx, http.MethodGet, path, query, &resp); err != nil {
		return nil, err
	}

	page := resp.Page()
	c.logger.DebugWithFields("fetched timeline page", map[string]interface{}{
		"path":       path,
		"count":      len(page.Items),
		"next_token": page.NextCursor,
	})
	return page, nil
}

// DeleteTweet deletes one of the authenticated user's tweets
func (c *Client) DeleteTweet(ctx context.Context, tweetID string) error {
	var resp DeleteResponse
	if err := c.doJSON(ctx, http.MethodDelete, TweetPath(tweetID), nil, &resp); err != nil {
		return fmt.Errorf("delete tweet %s: %w", tweetID, err)
	}
	if !resp.Data.Deleted {
		return errs.New(errs.ErrorTypeUnknown, http.StatusOK, fmt.Sprintf("tweet %s was not deleted", tweetID))
	}
	return nil
}

// Unlike removes the like userID placed on tweetID
func (c *Client) Unlike(ctx context.Context, userID, tweetID string) error {
	var resp UnlikeResponse
	if err := c.doJSON(ctx, http.MethodDelete, LikePath(userID, tweetID), nil, &resp); err != nil {
		return fmt.Errorf("unlike tweet %s: %w", tweetID, err)
	}
	if resp.Data.Liked {
		return errs.New(errs.ErrorTypeUnknown, http.StatusOK, fmt.Sprintf("tweet %s is still liked", tweetID))
	}
	return nil
}

// doJSON performs one signed request and decodes the JSON response
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": method,
		"url":    u,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   method,
			"url":      u,
			"error":    err.Error(),
			"duration": duration,
		})
		return errs.New(errs.ErrorTypeNetwork, 0, fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":    method,
		"url":       u,
		"status":    resp.StatusCode,
		"duration":  duration,
		"remaining": resp.Header.Get("x-rate-limit-remaining"),
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := c.checkResponseStatus(resp, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          u,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, fmt.Sprintf("failed to parse JSON: %v", err))
	}
	return nil
}

// checkResponseStatus maps an error status to a typed error
func (c *Client) checkResponseStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var problem ErrorResponse
	_ = json.Unmarshal(body, &problem)
	message := problem.Describe()

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resetAt := c.resetTime(resp.Header)
		fields["reset_at"] = resetAt
		c.logger.WarnWithFields("rate limit exceeded", fields)
		return errs.NewRateLimit(resetAt, message)
	}

	apiErr := errs.FromStatus(resp.StatusCode, message)
	switch apiErr.Type {
	case errs.ErrorTypeAuth, errs.ErrorTypeNotFound:
		c.logger.WarnWithFields(string(apiErr.Type)+" error", fields)
	default:
		c.logger.ErrorWithFields("unexpected API error", fields)
	}
	return apiErr
}

// resetTime reads the quota reset from x-rate-limit-reset (epoch seconds),
// falling back to Retry-After (seconds) and then to a full window.
func (c *Client) resetTime(h http.Header) time.Time {
	if v := h.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return time.Unix(epoch, 0)
		}
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
			return c.now().Add(time.Duration(secs) * time.Second)
		}
	}
	return c.now().Add(DefaultResetWindow)
}
