// Package client fetches posts, users and comments from the placeholder REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"postboard/app/logging"
	"postboard/app/metrics"
	"postboard/app/models"
)

// DefaultTTL is the validity window of cached responses.
const DefaultTTL = 5 * time.Minute

// Client is a cached JSON client for the remote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTTL sets how long successful responses stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithLogger sets the logger used for failed fetches.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for baseURL. A nil cache disables caching.
func NewClient(baseURL string, cache Cache, opts ...Option) *Client {
	if cache == nil {
		cache = NoCache{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:  cache,
		ttl:    DefaultTTL,
		logger: logging.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Posts fetches the full post collection.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	return getJSON[[]models.Post](ctx, c, "/posts", "/posts")
}

// Post fetches one post. A missing post yields (nil, nil).
func (c *Client) Post(ctx context.Context, id int) (*models.Post, error) {
	post, err := getJSON[models.Post](ctx, c, fmt.Sprintf("/posts/%d", id), "/posts/{id}")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// PostsByUser fetches the posts owned by userID.
func (c *Client) PostsByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return getJSON[[]models.Post](ctx, c, fmt.Sprintf("/users/%d/posts", userID), "/users/{id}/posts")
}

// Users fetches the full user collection.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	return getJSON[[]models.User](ctx, c, "/users", "/users")
}

// User fetches one user. A missing user yields (nil, nil).
func (c *Client) User(ctx context.Context, id int) (*models.User, error) {
	user, err := getJSON[models.User](ctx, c, fmt.Sprintf("/users/%d", id), "/users/{id}")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Comments fetches the remote comments of a post.
func (c *Client) Comments(ctx context.Context, postID int) ([]models.Comment, error) {
	return getJSON[[]models.Comment](ctx, c, fmt.Sprintf("/posts/%d/comments", postID), "/posts/{id}/comments")
}

// getJSON serves endpoint from the cache when possible, otherwise fetches and
// decodes it, caching the body only once it decoded cleanly.
func getJSON[T any](ctx context.Context, c *Client, endpoint, route string) (T, error) {
	var out T
	url := c.baseURL + endpoint

	if body, ok := c.cache.Get(ctx, url); ok {
		if err := json.Unmarshal(body, &out); err == nil {
			metrics.RemoteFetches.WithLabelValues(route, "cached").Inc()
			return out, nil
		}
		out = *new(T)
	}

	body, err := c.do(ctx, endpoint, url, route)
	if err != nil {
		metrics.RemoteFetches.WithLabelValues(route, kindOf(err)).Inc()
		c.logger.ErrorContext(ctx, "API call failed", slog.String("endpoint", endpoint), slog.Any("error", err))
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		metrics.RemoteFetches.WithLabelValues(route, KindFetchFailed.String()).Inc()
		ferr := &FetchError{Endpoint: endpoint, Status: http.StatusOK, Kind: KindFetchFailed, Err: fmt.Errorf("decode response: %w", err)}
		c.logger.ErrorContext(ctx, "API call failed", slog.String("endpoint", endpoint), slog.Any("error", ferr))
		return *new(T), ferr
	}

	metrics.RemoteFetches.WithLabelValues(route, "ok").Inc()
	c.cache.Set(ctx, url, body, c.ttl)
	return out, nil
}

func (c *Client) do(ctx context.Context, endpoint, url, route string) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RemoteFetchLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Kind: KindFetchFailed, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Kind: KindFetchFailed, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Status: resp.StatusCode, Kind: KindFetchFailed, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

func kindOf(err error) string {
	var ferr *FetchError
	if errors.As(err, &ferr) {
		return ferr.Kind.String()
	}
	return KindFetchFailed.String()
}
