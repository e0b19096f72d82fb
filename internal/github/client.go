// Package github imports a user's starred repositories as bookmarks.
package github

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/barky/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultPerPage = 100
	// starMediaType makes the starred endpoint include starred_at
	starMediaType = "application/vnd.github.star+json"
	apiVersion    = "2022-11-28"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the GitHub REST API.
type Client struct {
	token       string
	baseURL     string
	perPage     int
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a client. An empty token uses unauthenticated access
// with its much lower quota.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		token:       token,
		baseURL:     defaultBaseURL,
		perPage:     defaultPerPage,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: ratelimit.ForGitHub(token != ""),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithPerPage sets the page size, capped at GitHub's maximum of 100.
func WithPerPage(n int) Option {
	return func(client *Client) {
		if n > 0 && n <= defaultPerPage {
			client.perPage = n
		}
	}
}

// WithRateLimiter replaces the limiter. Passing nil disables client-side pacing.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}
