package util

import (
	"encoding/base64"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKD normalization so visually-identical Unicode inputs
// compare equal before pattern checks run against them.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}

// B64Encode encodes b using unpadded URL-safe base64.
func B64Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// B64Decode decodes an unpadded URL-safe base64 string.
func B64Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
