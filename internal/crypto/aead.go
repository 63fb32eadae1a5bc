package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

const (
	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// GCMNonceSize is the size of an AES-GCM IV in bytes.
	GCMNonceSize = 12
)

var (
	// ErrInvalidKeySize is returned when an AES key is not 32 bytes.
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrInvalidNonceSize is returned when an IV is not 12 bytes.
	ErrInvalidNonceSize = errors.New("invalid nonce size")
	// ErrDecryptionFailed is returned when authentication fails.
	ErrDecryptionFailed = errors.New("decryption failed")
)

func newGCM(key, iv []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, ErrInvalidKeySize
	}
	if len(iv) != GCMNonceSize {
		return nil, ErrInvalidNonceSize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealGCM encrypts plaintext with AES-256-GCM under key and iv.
// The IV must never repeat for the same key.
func SealGCM(key, iv, plaintext, ad []byte) ([]byte, error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv, plaintext, ad), nil
}

// OpenGCM decrypts and authenticates ciphertext.
func OpenGCM(key, iv, ciphertext, ad []byte) ([]byte, error) {
	aead, err := newGCM(key, iv)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, iv, ciphertext, ad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}
