// Package csrf manages the per-context anti-forgery token that stored
// records are bound to.
//
// The token lives in volatile, context-scoped memory and never touches
// the persistent medium, so it disappears when the browsing context ends.
// Validation is plain constant-time equality against the active token: it
// defends against cross-origin replay of stored blobs, not against a fully
// adversarial network attacker.
package csrf

import (
	"crypto/subtle"
	"sync"

	"github.com/mhollis/wardkeep/internal/uuid"
)

// Manager owns the single active token for a browsing context.
type Manager struct {
	mu    sync.Mutex
	token string
}

// NewManager creates a Manager with no active token.
func NewManager() *Manager {
	return &Manager{}
}

// Token returns the active token, minting one if absent. Idempotent.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		m.token = uuid.New()
	}
	return m.token
}

// Generate mints a fresh token, replacing any active one.
func (m *Manager) Generate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = uuid.New()
	return m.token
}

// Validate reports whether candidate equals the active token. A context with
// no active token validates nothing.
func (m *Manager) Validate(candidate string) bool {
	m.mu.Lock()
	active := m.token
	m.mu.Unlock()
	if active == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(active), []byte(candidate)) == 1
}

// Clear discards the active token. Called on logout and on store Clear.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}
