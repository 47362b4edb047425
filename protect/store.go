// Package protect implements the encrypted, expiry-aware, CSRF-bound façade
// over the persistent key-value medium.
//
// Every read is self-healing: a record that is stale, undecodable, or bound
// to a token that is no longer active is evicted and reported as absent
// rather than surfaced as an error. Callers never need recovery logic.
package protect

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/codec"
	"github.com/mhollis/wardkeep/csrf"
	"github.com/mhollis/wardkeep/storage"
)

// DefaultTimeout is the record-freshness window: how long a stored record
// stays readable after it was written.
const DefaultTimeout = 24 * time.Hour

// record is the decrypted shape of every stored value.
type record struct {
	Value     json.RawMessage `json:"value"`
	Timestamp time.Time       `json:"timestamp"`
	CSRFToken string          `json:"csrf_token,omitempty"`
}

// Store combines the codec, the CSRF manager and expiry metadata into
// get/set/remove/clear operations over the underlying medium.
type Store struct {
	medium  storage.Medium
	blobs   *codec.Codec
	tokens  *csrf.Manager
	events  *audit.Log
	clk     clock.Clock
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTimeout overrides the record-freshness window.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store over the given collaborators.
func New(medium storage.Medium, blobs *codec.Codec, tokens *csrf.Manager, events *audit.Log, clk clock.Clock, opts ...Option) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	s := &Store{
		medium:  medium,
		blobs:   blobs,
		tokens:  tokens,
		events:  events,
		clk:     clk,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Set encrypts value and writes it under key, stamped with the current time
// and the active CSRF token. The codec's plaintext fallback guarantees some
// bytes are always produced, so the only failure mode left is the medium.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing value for %q: %w", key, err)
	}

	rec := record{
		Value:     raw,
		Timestamp: s.clk.Now(),
		CSRFToken: s.tokens.Token(),
	}

	blob, err := s.blobs.Encrypt(rec)
	if err != nil {
		return fmt.Errorf("encoding record for %q: %w", key, err)
	}
	return s.medium.Set(key, blob)
}

// Get reads the record under key into out. It returns false, after
// evicting the offending record where one exists, when the key is absent,
// the blob is undecodable, the record has outlived the freshness window, or
// its CSRF binding no longer matches the active token. The returned error
// reports medium failures only.
func (s *Store) Get(key string, out any) (bool, error) {
	blob, err := s.medium.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", key, err)
	}

	var rec record
	if err := s.blobs.Decrypt(blob, &rec); err != nil {
		s.logger.Debug("evicting undecodable record", "key", key)
		return false, s.evict(key)
	}

	if s.clk.Now().Sub(rec.Timestamp) > s.timeout {
		s.logger.Debug("evicting expired record", "key", key)
		return false, s.evict(key)
	}

	if rec.CSRFToken != "" && !s.tokens.Validate(rec.CSRFToken) {
		s.events.Record(audit.EventSuspiciousActivity, audit.SeverityMedium, map[string]any{
			"reason": "csrf_mismatch",
			"key":    key,
		})
		return false, s.evict(key)
	}

	if out != nil {
		if err := json.Unmarshal(rec.Value, out); err != nil {
			s.logger.Debug("evicting record with mismatched shape", "key", key)
			return false, s.evict(key)
		}
	}
	return true, nil
}

// Remove deletes the record under key.
func (s *Store) Remove(key string) error {
	return s.medium.Delete(key)
}

// Clear removes every record and discards the active CSRF token.
func (s *Store) Clear() error {
	s.tokens.Clear()
	return s.medium.Clear()
}

func (s *Store) evict(key string) error {
	if err := s.medium.Delete(key); err != nil {
		return fmt.Errorf("evicting %q: %w", key, err)
	}
	return nil
}
