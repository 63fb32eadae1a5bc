package types

import "crypto/ecdsa"

// SigningKeyPair is the ECDSA P-256 key pair behind a leaf certificate.
// It lives in memory only.
type SigningKeyPair struct {
	Private *ecdsa.PrivateKey
	Public  *ecdsa.PublicKey
}

// Wipe drops the references to the key material. The big.Int scalar inside
// the private key cannot be reliably erased, so this only shortens its
// reachable lifetime.
func (k *SigningKeyPair) Wipe() {
	if k == nil {
		return
	}
	k.Private = nil
	k.Public = nil
}

// Valid reports whether both halves are present.
func (k SigningKeyPair) Valid() bool { return k.Private != nil && k.Public != nil }

// X25519Public is a Curve25519 public key used for ratchet steps.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key used for ratchet steps.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }
