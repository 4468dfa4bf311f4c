package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local sliding-window limiter.
type Memory struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	requests  map[string][]time.Time
	lastPurge time.Time
}

// NewMemory returns an in-memory limiter.
func NewMemory(cfg Config) *Memory {
	return newMemoryWithClock(cfg, time.Now)
}

func newMemoryWithClock(cfg Config, now func() time.Time) *Memory {
	cfg = cfg.withDefaults()
	return &Memory{
		cfg:       cfg,
		now:       now,
		requests:  make(map[string][]time.Time),
		lastPurge: now(),
	}
}

// Check records a request for identifier if it fits in the window.
func (m *Memory) Check(_ context.Context, identifier string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-m.cfg.Window)

	valid := inWindow(m.requests[identifier], windowStart)

	if len(valid) >= m.cfg.Max {
		m.requests[identifier] = valid
		return Result{
			Allowed:   false,
			Limit:     m.cfg.Max,
			Remaining: 0,
			Reset:     valid[0].Add(m.cfg.Window),
		}, nil
	}

	valid = append(valid, now)
	m.requests[identifier] = valid

	if now.Sub(m.lastPurge) >= m.cfg.CleanupInterval {
		m.purge(windowStart)
		m.lastPurge = now
	}

	return Result{
		Allowed:   true,
		Limit:     m.cfg.Max,
		Remaining: m.cfg.Max - len(valid),
		Reset:     valid[0].Add(m.cfg.Window),
	}, nil
}

// Len returns the number of identifiers currently tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// purge drops identifiers with no requests after windowStart. Caller holds mu.
func (m *Memory) purge(windowStart time.Time) {
	for key, times := range m.requests {
		valid := inWindow(times, windowStart)
		if len(valid) == 0 {
			delete(m.requests, key)
			continue
		}
		m.requests[key] = valid
	}
}

// inWindow returns the suffix of times strictly after windowStart. times is
// kept in ascending order by Check.
func inWindow(times []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(windowStart) {
		i++
	}
	if i == 0 {
		return times
	}
	out := make([]time.Time, len(times)-i)
	copy(out, times[i:])
	return out
}

var _ Limiter = (*Memory)(nil)
