// Package audit keeps an append-only, capped, in-memory ledger of
// security-relevant occurrences.
package audit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/internal/uuid"
)

// DefaultCapacity bounds the event ring when no capacity is configured.
const DefaultCapacity = 1000

// Severity classifies how alarming an event is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// EventType names a security-relevant occurrence.
type EventType string

const (
	EventLoginAttempt       EventType = "login_attempt"
	EventLogout             EventType = "logout"
	EventSessionExpired     EventType = "session_expired"
	EventSuspiciousActivity EventType = "suspicious_activity"
	EventValidationAttempt  EventType = "validation_attempt"
	EventValidationFailure  EventType = "validation_failure"
	EventCSRFMismatch       EventType = "csrf_mismatch"
	EventRateLimitExceeded  EventType = "rate_limit_exceeded"
	EventDataExported       EventType = "data_exported"
	EventDataDeleted        EventType = "data_deleted"
)

// Event is an immutable, severity-tagged audit record.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Severity  Severity       `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// AlertFunc receives critical-severity events as they are recorded. It must
// not block; dispatchers that do I/O should enqueue internally (see Webhook).
type AlertFunc func(Event)

// Log is a fixed-capacity ring of events. Oldest entries are silently
// dropped past capacity. Reads return events in insertion order.
type Log struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	clk      clock.Clock
	alert    AlertFunc
	logger   *slog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithAlertFunc wires the critical-severity alert hook.
func WithAlertFunc(fn AlertFunc) Option {
	return func(l *Log) { l.alert = fn }
}

// WithLogger sets the structured logger events are mirrored to.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// NewLog creates a Log holding at most capacity events. A non-positive
// capacity falls back to DefaultCapacity.
func NewLog(capacity int, clk clock.Clock, opts ...Option) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clk == nil {
		clk = clock.System{}
	}
	l := &Log{capacity: capacity, clk: clk}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Record appends an event. Critical events additionally fire the alert hook.
func (l *Log) Record(typ EventType, severity Severity, details map[string]any) {
	evt := Event{
		ID:        uuid.New(),
		Type:      typ,
		Severity:  severity,
		Timestamp: l.clk.Now(),
		Details:   details,
	}

	l.mu.Lock()
	l.events = append(l.events, evt)
	if len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}
	alert := l.alert
	l.mu.Unlock()

	l.mirror(evt)
	if severity == SeverityCritical && alert != nil {
		alert(evt)
	}
}

// Events returns recorded events in insertion order, oldest first. A
// non-empty typ filters by event type.
func (l *Log) Events(typ EventType) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, 0, len(l.events))
	for _, evt := range l.events {
		if typ != "" && evt.Type != typ {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// Clear discards all recorded events.
func (l *Log) Clear() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

func (l *Log) mirror(evt Event) {
	attrs := []any{"event_id", evt.ID, "type", string(evt.Type)}
	switch evt.Severity {
	case SeverityLow:
		l.logger.Debug("security event", attrs...)
	case SeverityMedium:
		l.logger.Info("security event", attrs...)
	case SeverityHigh:
		l.logger.Warn("security event", attrs...)
	default:
		l.logger.Error("security event", attrs...)
	}
}
