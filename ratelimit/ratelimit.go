// Package ratelimit throttles caller-chosen actions with a sliding window.
//
// State is memory-resident only: a process restart resets every counter.
// This is per-context abuse control, not cross-session enforcement.
package ratelimit

import (
	"sync"
	"time"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/clock"
)

// entry tracks recent request times for one key. Timestamps older than the
// window are pruned lazily on every check.
type entry struct {
	timestamps []time.Time
	blocked    bool
}

// Limiter is a sliding-window request counter keyed by arbitrary strings.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	clk     clock.Clock
	events  *audit.Log
}

// New creates a Limiter. The audit log may be nil.
func New(clk clock.Clock, events *audit.Log) *Limiter {
	if clk == nil {
		clk = clock.System{}
	}
	return &Limiter{
		entries: make(map[string]*entry),
		clk:     clk,
		events:  events,
	}
}

// Check reports whether another request under key is allowed given at most
// maxRequests per sliding window. An allowed request is counted immediately;
// a denied one is not, so the window never over-counts.
func (l *Limiter) Check(key string, maxRequests int, window time.Duration) bool {
	now := l.clk.Now()
	cutoff := now.Add(-window)

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}

	// Prune timestamps that slid out of the window.
	start := 0
	for start < len(e.timestamps) && !e.timestamps[start].After(cutoff) {
		start++
	}
	e.timestamps = e.timestamps[start:]

	if len(e.timestamps) >= maxRequests {
		e.blocked = true
		l.mu.Unlock()
		if l.events != nil {
			l.events.Record(audit.EventRateLimitExceeded, audit.SeverityMedium, map[string]any{
				"key":          key,
				"max_requests": maxRequests,
				"window_ms":    window.Milliseconds(),
			})
		}
		return false
	}

	e.timestamps = append(e.timestamps, now)
	e.blocked = false
	l.mu.Unlock()
	return true
}

// Blocked reports whether the most recent Check for key was denied.
func (l *Limiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	return ok && e.blocked
}

// Reset forgets all state for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
}

// Sweep removes entries whose every timestamp is older than window. Callers
// with many one-shot keys can run it periodically to bound memory.
func (l *Limiter) Sweep(window time.Duration) {
	cutoff := l.clk.Now().Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if len(e.timestamps) == 0 || !e.timestamps[len(e.timestamps)-1].After(cutoff) {
			delete(l.entries, key)
		}
	}
}
