package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"

	"certchat/internal/domain"
)

const (
	// P256ScalarSize is the byte length of r and s.
	P256ScalarSize = 32
	// P256SignatureSize is the byte length of a raw r||s signature.
	P256SignatureSize = 2 * P256ScalarSize
	// P256PublicKeySize is the byte length of an uncompressed point.
	P256PublicKeySize = 65
)

var (
	errNotP256       = errors.New("key is not an ECDSA P-256 key")
	p256HalfOrder    = new(big.Int).Rsh(elliptic.P256().Params().N, 1)
	errNilPrivateKey = errors.New("nil private key")
)

// GenerateP256 returns a new ECDSA P-256 key pair.
func GenerateP256() (domain.SigningKeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), randReader)
	if err != nil {
		return domain.SigningKeyPair{}, fmt.Errorf("%w: %w: %v",
			domain.ErrKeyGenerationFailed, domain.ErrCryptoUnavailable, err)
	}
	return domain.SigningKeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// ExportPublicKey encodes pub as an uncompressed point.
func ExportPublicKey(pub *ecdsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return nil, errNotP256
	}
	return pub.Bytes()
}

// ImportPublicKey decodes an uncompressed P-256 point.
func ImportPublicKey(raw []byte) (*ecdsa.PublicKey, error) {
	if len(raw) != P256PublicKeySize {
		return nil, fmt.Errorf("public key: want %d bytes, got %d", P256PublicKeySize, len(raw))
	}
	return ecdsa.ParseUncompressedPublicKey(elliptic.P256(), raw)
}

// ExportPrivateKey encodes priv as PKCS8 DER.
func ExportPrivateKey(priv *ecdsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, errNilPrivateKey
	}
	return x509.MarshalPKCS8PrivateKey(priv)
}

// ImportPrivateKey decodes a PKCS8 DER P-256 private key.
func ImportPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok || priv.Curve != elliptic.P256() {
		return nil, errNotP256
	}
	return priv, nil
}

// SignP256 signs SHA-256(msg) and returns the low-S raw r||s signature.
func SignP256(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	if priv == nil {
		return nil, errNilPrivateKey
	}
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(randReader, priv, digest[:])
	if err != nil {
		return nil, err
	}
	if s.Cmp(p256HalfOrder) > 0 {
		s = new(big.Int).Sub(priv.Curve.Params().N, s)
	}
	out := make([]byte, P256SignatureSize)
	r.FillBytes(out[:P256ScalarSize])
	s.FillBytes(out[P256ScalarSize:])
	return out, nil
}

// VerifyP256 checks a raw r||s signature over SHA-256(msg). High-S
// signatures are rejected.
func VerifyP256(pub *ecdsa.PublicKey, msg, sig []byte) bool {
	if pub == nil || len(sig) != P256SignatureSize {
		return false
	}
	r := new(big.Int).SetBytes(sig[:P256ScalarSize])
	s := new(big.Int).SetBytes(sig[P256ScalarSize:])
	if s.Cmp(p256HalfOrder) > 0 {
		return false
	}
	digest := sha256.Sum256(msg)
	return ecdsa.Verify(pub, digest[:], r, s)
}
