package sanitize

import (
	"fmt"
	"regexp"

	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/csrf"
)

// csrfField is the payload field carrying a claimed anti-forgery token.
const csrfField = "csrf_token"

// Constraint describes the schema-level requirements for one payload field.
type Constraint struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// Result is the outcome of a validation pass. On success OK is true and
// Data holds the sanitized payload; on failure Errors lists every violation.
type Result struct {
	OK     bool
	Data   map[string]any
	Errors []string
}

// Pipeline sanitizes and validates candidate payloads, consulting the CSRF
// manager when a payload claims a token and auditing every attempt.
type Pipeline struct {
	tokens *csrf.Manager
	events *audit.Log
}

// NewPipeline creates a validation pipeline. Both collaborators are required.
func NewPipeline(tokens *csrf.Manager, events *audit.Log) *Pipeline {
	return &Pipeline{tokens: tokens, events: events}
}

// Validate sanitizes payload and applies constraints to the sanitized
// values. A claimed CSRF token is checked first: a mismatch is logged at
// high severity and short-circuits with a rejection before any constraint
// runs, so nothing downstream ever sees the payload.
func (p *Pipeline) Validate(payload map[string]any, constraints map[string]Constraint) Result {
	sanitized, _ := Value(payload).(map[string]any)
	if sanitized == nil {
		sanitized = map[string]any{}
	}

	if claimed, ok := sanitized[csrfField].(string); ok {
		if !p.tokens.Validate(claimed) {
			p.events.Record(audit.EventCSRFMismatch, audit.SeverityHigh, nil)
			return Result{OK: false, Errors: []string{"csrf token mismatch"}}
		}
	}

	var errs []string
	for field, c := range constraints {
		errs = append(errs, checkField(field, sanitized, c)...)
	}

	if len(errs) > 0 {
		p.events.Record(audit.EventValidationFailure, audit.SeverityMedium, map[string]any{
			"errors": errs,
		})
		return Result{OK: false, Errors: errs}
	}

	p.events.Record(audit.EventValidationAttempt, audit.SeverityLow, nil)
	return Result{OK: true, Data: sanitized}
}

func checkField(field string, payload map[string]any, c Constraint) []string {
	value, present := payload[field]
	if !present {
		if c.Required {
			return []string{fmt.Sprintf("%s is required", field)}
		}
		return nil
	}

	s, isString := value.(string)
	if !isString {
		// Length and pattern constraints only apply to strings.
		return nil
	}

	var errs []string
	if c.MinLength > 0 && len(s) < c.MinLength {
		errs = append(errs, fmt.Sprintf("%s is shorter than minimum length %d", field, c.MinLength))
	}
	if c.MaxLength > 0 && len(s) > c.MaxLength {
		errs = append(errs, fmt.Sprintf("%s exceeds maximum length %d", field, c.MaxLength))
	}
	// Length bounds are reported above; here only the pattern guard runs.
	if err := CheckInput(s, 0); err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", field, err))
	}
	if c.Pattern != nil && !c.Pattern.MatchString(s) {
		errs = append(errs, fmt.Sprintf("%s does not match required format", field))
	}
	return errs
}
