package codec

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by BytesToText when the input is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid utf-8 text")

// TextToBytes returns the UTF-8 encoding of s.
func TextToBytes(s string) []byte { return []byte(s) }

// BytesToText decodes b as UTF-8 text.
func BytesToText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ToBase64 returns standard base64 with padding and without newlines.
func ToBase64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// FromBase64 decodes standard base64 with padding.
func FromBase64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// DecodeBase64 is lenient: it accepts standard or URL-safe alphabets, padded
// or not. Use it for user-supplied values such as pasted session keys.
func DecodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

// Equal compares a and b in constant time with respect to their contents.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Clone returns a copy of b that does not share its backing array.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
