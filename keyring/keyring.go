// Package keyring derives the symmetric key protecting stored records.
//
// The key is never persisted: it is recomputed on demand from a stretched
// application secret, an environment fingerprint, and a coarse time bucket.
// Within one bucket on one environment, Derive always returns the same key.
// The tradeoff is deliberate: there is no key at rest to extract, but any
// record older than roughly one bucket becomes undecryptable regardless of
// its own expiry window.
package keyring

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/awnumar/memguard"

	"github.com/mhollis/wardkeep/clock"
	"github.com/mhollis/wardkeep/internal/util"
)

// DefaultBucket is the key rotation interval.
const DefaultBucket = time.Hour

const keyInfoPrefix = "wardkeep-record-key-v1:"

// Deriver computes bucket-scoped symmetric keys. The stretched seed lives in
// a memguard Enclave (encrypted at rest in memory) and is only opened for
// the duration of a single derivation.
type Deriver struct {
	seed        *memguard.Enclave
	fingerprint []byte
	clk         clock.Clock
	bucket      time.Duration
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithBucket overrides the key rotation interval.
func WithBucket(d time.Duration) Option {
	return func(k *Deriver) { k.bucket = d }
}

// New creates a Deriver from the application secret and an environment
// fingerprint. The secret is stretched once with Argon2id (salted by the
// fingerprint) and the result is sealed into an enclave; the raw secret is
// not retained.
func New(secret, fingerprint string, clk clock.Clock, opts ...Option) (*Deriver, error) {
	if secret == "" {
		return nil, errors.New("application secret must not be empty")
	}
	if fingerprint == "" {
		return nil, errors.New("environment fingerprint must not be empty")
	}
	if clk == nil {
		clk = clock.System{}
	}

	salt := sha256.Sum256([]byte(fingerprint))
	seed, err := util.StretchArgon2id(secret, salt[:], util.DefaultArgon2idParams())
	if err != nil {
		return nil, fmt.Errorf("stretching secret: %w", err)
	}

	d := &Deriver{
		// NewEnclave wipes the seed slice after sealing it.
		seed:        memguard.NewEnclave(seed),
		fingerprint: salt[:],
		clk:         clk,
		bucket:      DefaultBucket,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.bucket <= 0 {
		return nil, errors.New("key bucket must be positive")
	}
	return d, nil
}

// Derive returns the key for the current time bucket. The caller owns the
// returned slice and should wipe it when done.
func (d *Deriver) Derive() ([]byte, error) {
	return d.deriveAt(d.currentBucket())
}

// DerivePrevious returns the key for the bucket immediately before the
// current one. The codec uses it to open records written just before a key
// rotation.
func (d *Deriver) DerivePrevious() ([]byte, error) {
	return d.deriveAt(d.currentBucket() - 1)
}

func (d *Deriver) currentBucket() int64 {
	return d.clk.Now().UnixMilli() / d.bucket.Milliseconds()
}

func (d *Deriver) deriveAt(bucket int64) ([]byte, error) {
	buf, err := d.seed.Open()
	if err != nil {
		return nil, fmt.Errorf("opening seed enclave: %w", err)
	}
	defer buf.Destroy()

	info := []byte(keyInfoPrefix + strconv.FormatInt(bucket, 10))
	key, err := util.HKDF(buf.Bytes(), d.fingerprint, info)
	if err != nil {
		return nil, fmt.Errorf("deriving bucket key: %w", err)
	}
	return key, nil
}
