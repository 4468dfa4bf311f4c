// Package ratelimit implements per-identifier sliding-window rate limiting.
//
// Each identifier keeps a log of request timestamps. A check discards entries
// older than the window, denies when the log is full and otherwise records
// the request.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultWindow          = 60 * time.Second
	DefaultMax             = 20
	DefaultCleanupInterval = time.Minute
)

// Config configures a limiter. Zero values fall back to the defaults.
type Config struct {
	// Window is the trailing period requests are counted over.
	Window time.Duration
	// Max is the number of requests allowed per identifier within Window.
	Max int
	// CleanupInterval bounds how often idle identifiers are purged.
	CleanupInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Max <= 0 {
		c.Max = DefaultMax
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	return c
}

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is when the oldest request still in the window expires.
	Reset time.Time
}

// RetryAfter returns how long a denied caller should wait, rounded up to a
// whole second and never below one.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.Reset.Sub(now)
	if d <= 0 {
		return time.Second
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}

// Limiter decides whether a request from identifier may proceed.
type Limiter interface {
	Check(ctx context.Context, identifier string) (Result, error)
}
