// Package uuid wraps UUID generation behind a minimal interface.
package uuid

import "github.com/google/uuid"

// New returns a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}
