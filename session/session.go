// Package session models login sessions on top of the protected store.
//
// Two timers govern a session and they are deliberately orthogonal: the
// store's record-freshness window bounds how long the stored record itself
// stays decodable, while the idle timeout here bounds how long a user may
// go between validations. The idle check runs on every Validate even though
// the store already evicts stale records.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/csrf"
	"github.com/mhollis/wardkeep/internal/util"
	"github.com/mhollis/wardkeep/protect"
)

// DefaultIdleTimeout is how long a session survives without activity.
const DefaultIdleTimeout = 30 * time.Minute

// sessionTokenBytes is the entropy of a minted session token.
const sessionTokenBytes = 32

// Record is the stored shape of an active session.
type Record struct {
	UserID       string    `json:"user_id"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	CSRFToken    string    `json:"csrf_token"`
}

// Manager owns session lifecycle: creation, activity refresh, idle timeout
// and destruction. Storage is delegated to the protected store under one
// well-known key.
type Manager struct {
	store       *protect.Store
	tokens      *csrf.Manager
	events      *audit.Log
	clk         clock.Clock
	idleTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIdleTimeout overrides the idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idleTimeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager.
func NewManager(store *protect.Store, tokens *csrf.Manager, events *audit.Log, clk clock.Clock, opts ...Option) *Manager {
	if clk == nil {
		clk = clock.System{}
	}
	m := &Manager{
		store:       store,
		tokens:      tokens,
		events:      events,
		clk:         clk,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Create mints a session token and a fresh CSRF token, persists the session
// record, and returns the session token.
func (m *Manager) Create(userID string) (string, error) {
	token, err := util.RandomToken(sessionTokenBytes)
	if err != nil {
		return "", fmt.Errorf("minting session token: %w", err)
	}

	now := m.clk.Now()
	rec := Record{
		UserID:       userID,
		Token:        token,
		CreatedAt:    now,
		LastActivity: now,
		CSRFToken:    m.tokens.Generate(),
	}
	if err := m.store.Set(protect.KeySession, rec); err != nil {
		return "", fmt.Errorf("persisting session: %w", err)
	}

	m.events.Record(audit.EventLoginAttempt, audit.SeverityLow, map[string]any{
		"user_id": userID,
		"success": true,
	})
	return token, nil
}

// Validate reports whether an active session exists. A session idle longer
// than the timeout is destroyed; otherwise its activity stamp is refreshed
// and re-persisted.
func (m *Manager) Validate() bool {
	rec, ok := m.load()
	if !ok {
		return false
	}

	if m.clk.Now().Sub(rec.LastActivity) > m.idleTimeout {
		m.events.Record(audit.EventSessionExpired, audit.SeverityLow, map[string]any{
			"user_id": rec.UserID,
		})
		m.Destroy()
		return false
	}

	rec.LastActivity = m.clk.Now()
	if err := m.store.Set(protect.KeySession, rec); err != nil {
		m.logger.Warn("session: refresh failed", "error", err)
	}
	return true
}

// Destroy removes the session record and clears the CSRF token.
func (m *Manager) Destroy() {
	if err := m.store.Remove(protect.KeySession); err != nil {
		m.logger.Warn("session: remove failed", "error", err)
	}
	m.tokens.Clear()
	m.events.Record(audit.EventLogout, audit.SeverityLow, nil)
}

// User returns the user ID of the active session, if any. No activity
// refresh happens on this path.
func (m *Manager) User() (string, bool) {
	rec, ok := m.load()
	if !ok {
		return "", false
	}
	return rec.UserID, true
}

func (m *Manager) load() (Record, bool) {
	var rec Record
	found, err := m.store.Get(protect.KeySession, &rec)
	if err != nil {
		m.logger.Warn("session: read failed", "error", err)
		return Record{}, false
	}
	return rec, found
}
