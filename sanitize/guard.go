package sanitize

import (
	"fmt"
	"strings"

	"github.com/mhollis/wardkeep/internal/util"
)

// dangerousPatterns are substrings that must never survive into stored or
// transmitted values, even after escaping. Matched case-insensitively
// against the NFKD-normalized input, so homoglyph tricks that normalize
// back to ASCII are caught too.
var dangerousPatterns = []string{
	"<script",
	"</script",
	"<iframe",
	"javascript:",
	"vbscript:",
	"data:text/html",
	"onerror=",
	"onload=",
	"onclick=",
	"onmouseover=",
	"eval(",
	"document.cookie",
	"document.write",
}

// CheckInput rejects s when it exceeds maxLength or contains a known
// dangerous substring. It is the second line of defense behind String:
// escaping makes markup inert, this refuses payloads that carry attack
// substrings escaping does not touch.
func CheckInput(s string, maxLength int) error {
	if maxLength > 0 && len(s) > maxLength {
		return fmt.Errorf("input length %d exceeds maximum of %d", len(s), maxLength)
	}

	probe := strings.ToLower(util.Normalize(s))
	for _, pattern := range dangerousPatterns {
		if strings.Contains(probe, pattern) {
			return fmt.Errorf("input contains forbidden pattern %q", pattern)
		}
	}
	return nil
}
