// Package ratelimit paces outgoing API requests.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// GitHub allows 5000 requests an hour with a token and 60 without.
const (
	GitHubAuthenticatedPerHour   = 5000
	GitHubUnauthenticatedPerHour = 60
)

// Limiter wraps rate.Limiter with a name for logging.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing requestsPerSecond with an equal burst.
func New(name string, requestsPerSecond int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
}

// NewPerHour creates a limiter spreading perHour requests evenly over an
// hour, allowing bursts of up to burst requests.
func NewPerHour(name string, perHour, burst int) *Limiter {
	if perHour <= 0 {
		perHour = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), burst),
		name:    name,
	}
}

// ForGitHub returns a limiter sized to GitHub's REST quota
func ForGitHub(authenticated bool) *Limiter {
	if authenticated {
		return NewPerHour("github", GitHubAuthenticatedPerHour, 10)
	}
	return NewPerHour("github", GitHubUnauthenticatedPerHour, 10)
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	return l.name
}
