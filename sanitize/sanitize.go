// Package sanitize neutralizes dangerous markup in caller-supplied values
// and enforces schema-level constraints before anything reaches the
// protected store or a network call.
package sanitize

import "strings"

// escaper renders markup-significant characters as inert entities. The
// ampersand is deliberately left alone: rewriting it would re-escape
// already-escaped output and break idempotence, and without '<' or '>' in
// the output no entity can become executable markup.
var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// String returns s with markup-significant characters escaped. Idempotent:
// String(String(s)) == String(s).
func String(s string) string {
	return escaper.Replace(s)
}

// Value recursively sanitizes a structured value: strings are escaped,
// maps and slices are walked element by element, and non-string scalars
// pass through unchanged. The input is not mutated.
func Value(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[String(key)] = Value(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Value(elem)
		}
		return out
	case []string:
		out := make([]string, len(v))
		for i, elem := range v {
			out[i] = String(elem)
		}
		return out
	default:
		return v
	}
}
