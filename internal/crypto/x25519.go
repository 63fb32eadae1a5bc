package crypto

import (
	"errors"
	"io"

	"github.com/cloudflare/circl/dh/x25519"

	"certchat/internal/domain"
)

var errLowOrderPoint = errors.New("x25519: low-order peer public key")

// GenerateX25519 returns a fresh Curve25519 key pair.
func GenerateX25519() (priv domain.X25519Private, pub domain.X25519Public, err error) {
	var sk, pk x25519.Key
	if _, err = io.ReadFull(randReader, sk[:]); err != nil {
		return priv, pub, errors.Join(domain.ErrCryptoUnavailable, err)
	}
	x25519.KeyGen(&pk, &sk)
	copy(priv[:], sk[:])
	copy(pub[:], pk[:])
	return priv, pub, nil
}

// DH computes X25519 Diffie–Hellman. It fails for low-order peer keys.
func DH(priv domain.X25519Private, pub domain.X25519Public) (out [32]byte, err error) {
	var shared, sk, pk x25519.Key
	copy(sk[:], priv[:])
	copy(pk[:], pub[:])
	if !x25519.Shared(&shared, &sk, &pk) {
		return out, errLowOrderPoint
	}
	copy(out[:], shared[:])
	return out, nil
}
