// Package bbolt provides a BBolt-backed storage.Medium for deployments that
// need the protected data to survive process restarts.
package bbolt

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/mhollis/wardkeep/storage"
)

var bucketName = []byte("wardkeep")

// Medium implements storage.Medium backed by a BBolt database.
type Medium struct {
	db *bbolt.DB
}

var _ storage.Medium = (*Medium)(nil)

// New returns a Medium backed by the given BBolt database.
func New(db *bbolt.DB) (*Medium, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &Medium{db: db}, nil
}

// Open opens a BBolt database at path and returns a Medium over it.
func Open(path string, options *bbolt.Options) (*Medium, error) {
	db, err := bbolt.Open(path, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db)
}

// Close closes the underlying BBolt database.
func (m *Medium) Close() error {
	return m.db.Close()
}

func (m *Medium) Get(key string) (string, error) {
	var value string
	err := m.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (m *Medium) Set(key, value string) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
}

func (m *Medium) Delete(key string) error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (m *Medium) Keys() ([]string, error) {
	var keys []string
	err := m.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (m *Medium) Clear() error {
	return m.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}
