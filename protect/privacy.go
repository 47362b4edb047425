package protect

import (
	"time"

	"github.com/mhollis/wardkeep/audit"
)

// Well-known keys the application stores user data under.
const (
	KeyBehavior    = "wardkeep_behavior"
	KeyPreferences = "wardkeep_preferences"
	KeySession     = "wardkeep_session"
)

// ExportBundle is a plain, decrypted snapshot of everything held about the
// user, suitable for download from an account-settings surface.
type ExportBundle struct {
	Behavior    any       `json:"behavior"`
	Preferences any       `json:"preferences"`
	Session     any       `json:"session"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Export decrypts the well-known records into a snapshot. Absent or
// unreadable records appear as null; the self-healing semantics of Get
// apply, so an unreadable record is also evicted by the export pass.
func (s *Store) Export() (ExportBundle, error) {
	bundle := ExportBundle{ExportedAt: s.clk.Now()}

	for _, part := range []struct {
		key string
		out *any
	}{
		{KeyBehavior, &bundle.Behavior},
		{KeyPreferences, &bundle.Preferences},
		{KeySession, &bundle.Session},
	} {
		var value any
		found, err := s.Get(part.key, &value)
		if err != nil {
			return ExportBundle{}, err
		}
		if found {
			*part.out = value
		}
	}

	s.events.Record(audit.EventDataExported, audit.SeverityLow, nil)
	return bundle, nil
}

// DeleteAll removes every key present in the medium, session and
// behavioral data included, and discards the active CSRF token.
func (s *Store) DeleteAll() error {
	keys, err := s.medium.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.medium.Delete(key); err != nil {
			return err
		}
	}
	s.tokens.Clear()
	s.events.Record(audit.EventDataDeleted, audit.SeverityLow, map[string]any{
		"keys_removed": len(keys),
	})
	return nil
}
