// Package codec serializes structured values to self-contained encrypted
// blobs and back, using bucket-scoped keys from the keyring.
//
// Blobs are versioned JSON envelopes wrapping AES-256-GCM ciphertext.
// Decode tolerates ciphertext from the previous key bucket and plain
// unencrypted legacy payloads; anything else fails closed with ErrDecode.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mhollis/wardkeep/internal/util"
	"github.com/mhollis/wardkeep/keyring"
)

// ErrDecode indicates a blob could not be decoded under any accepted key or
// format. Callers must treat it as "no usable value", not a fatal error.
var ErrDecode = errors.New("undecodable payload")

const (
	envelopeVer    = 1
	envelopeScheme = "aes256gcm"
)

// envelope is the on-medium format of an encrypted value. Keeping the format
// explicit means the legacy-plaintext fallback only fires for inputs that
// are not well-formed envelopes.
type envelope struct {
	Ver    int    `json:"ver"`
	Scheme string `json:"scheme"`
	Data   string `json:"data"`
}

// Codec encrypts and decrypts structured values.
type Codec struct {
	keys   *keyring.Deriver
	logger *slog.Logger
}

// New creates a Codec over the given key deriver.
func New(keys *keyring.Deriver, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{keys: keys, logger: logger}
}

// Encrypt serializes value and seals it under the current bucket key.
//
// Encrypt never fails outright: if key derivation or sealing breaks, the
// plain JSON serialization is returned instead so the store can still write
// something. The degradation is logged.
func (c *Codec) Encrypt(value any) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serializing value: %w", err)
	}

	key, err := c.keys.Derive()
	if err != nil {
		c.logger.Warn("codec: key derivation failed, storing plaintext", "error", err)
		return string(plaintext), nil
	}
	defer util.WipeBytes(key)

	sealed, err := util.EncryptGCM(plaintext, key, nil)
	if err != nil {
		c.logger.Warn("codec: seal failed, storing plaintext", "error", err)
		return string(plaintext), nil
	}

	blob, err := json.Marshal(envelope{
		Ver:    envelopeVer,
		Scheme: envelopeScheme,
		Data:   util.B64Encode(sealed),
	})
	if err != nil {
		return "", fmt.Errorf("serializing envelope: %w", err)
	}
	return string(blob), nil
}

// Decrypt decodes blob into out. It first tries the current bucket key,
// then the previous bucket's key, and finally, when the input is not a
// well-formed envelope at all, direct deserialization of a legacy
// plaintext payload. Any other outcome is ErrDecode.
func (c *Codec) Decrypt(blob string, out any) error {
	var env envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil || !env.valid() {
		// Not an envelope. Legacy payloads were written as bare JSON.
		if err := json.Unmarshal([]byte(blob), out); err != nil {
			return ErrDecode
		}
		return nil
	}

	sealed, err := util.B64Decode(env.Data)
	if err != nil {
		return ErrDecode
	}

	plaintext, ok := c.open(sealed)
	if !ok {
		return ErrDecode
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return ErrDecode
	}
	return nil
}

func (env envelope) valid() bool {
	return env.Ver == envelopeVer && env.Scheme == envelopeScheme && env.Data != ""
}

// open tries the current bucket key, then the previous one. Records written
// just before a rotation remain readable for one extra bucket.
func (c *Codec) open(sealed []byte) ([]byte, bool) {
	for _, derive := range []func() ([]byte, error){c.keys.Derive, c.keys.DerivePrevious} {
		key, err := derive()
		if err != nil {
			continue
		}
		plaintext, err := util.DecryptGCM(sealed, key, nil)
		util.WipeBytes(key)
		if err == nil {
			return plaintext, true
		}
	}
	return nil, false
}
