// Package api is a thin authenticated client for the Stack Overflow Teams HTTP API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request end to end. There are no retries.
const DefaultTimeout = 10 * time.Second

// Item is one question, answer or excerpt record. Fields absent from the
// payload decode to zero values.
type Item struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Excerpt    string `json:"excerpt"`
	Link       string `json:"link"`
	QuestionID int64  `json:"question_id"`
	Score      int    `json:"score"`
	ItemType   string `json:"item_type"`
}

// Response is the envelope every endpoint returns.
type Response struct {
	Items []Item `json:"items"`
}

// Getter is the client surface the tool handlers depend on.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values) (Response, error)
}

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %s", e.Path, e.Status)
}

// Client issues authenticated GETs against the Teams API. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path relative to the base URL with params as the query string.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (Response, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("X-API-Access-Token", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode %s response: %w", path, err)
	}
	return out, nil
}
