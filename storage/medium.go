// Package storage defines the key-value medium the protection layer is
// built on top of.
package storage

import "errors"

// ErrNotFound is returned when a key is absent from the medium.
var ErrNotFound = errors.New("key not found")

// Medium is a plain string key-value store: unauthenticated, unencrypted,
// and schema-free. All structure, confidentiality and freshness guarantees
// are imposed by the layers above it.
//
// The medium may be shared by multiple concurrent writers (the browser
// localStorage model); writes are last-writer-wins at the key level and no
// cross-writer locking is attempted.
type Medium interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, replacing any existing value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns every key currently present, in no particular order.
	Keys() ([]string, error)
	// Clear removes every key.
	Clear() error
}
