package signer

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"certchat/internal/codec"
	"certchat/internal/crypto"
	"certchat/internal/domain"
)

// SignData signs the UTF-8 bytes of message and returns base64 r||s.
func SignData(message string, priv *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.SignP256(priv, codec.TextToBytes(message))
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	return codec.ToBase64(sig), nil
}

// CheckSignature verifies a base64 signature over message under pubRaw, an
// uncompressed P-256 point.
func CheckSignature(message, signatureB64 string, pubRaw []byte) error {
	pub, err := crypto.ImportPublicKey(pubRaw)
	if err != nil {
		return domain.ErrMalformedCertificate
	}
	sig, err := codec.FromBase64(signatureB64)
	if err != nil {
		return domain.ErrSignatureMismatch
	}
	if !crypto.VerifyP256(pub, codec.TextToBytes(message), sig) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// VerifySignature reports whether signatureB64 is a valid signature over
// message under pubRaw.
func VerifySignature(message, signatureB64 string, pubRaw []byte) bool {
	return CheckSignature(message, signatureB64, pubRaw) == nil
}

// HashDocument returns the base64 SHA-256 of the file's full content.
func HashDocument(file domain.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open %q: %w", file.Name(), err)
	}
	defer rc.Close()
	sum, err := crypto.HashReader(rc)
	if err != nil {
		return "", fmt.Errorf("hash %q: %w", file.Name(), err)
	}
	return codec.ToBase64(sum), nil
}

// SignDocument hashes file, signs the hash and packages it with cert.
func SignDocument(
	file domain.File,
	priv *ecdsa.PrivateKey,
	cert domain.Certificate,
	now time.Time,
) (domain.DocumentSignature, error) {
	hash, err := HashDocument(file)
	if err != nil {
		return domain.DocumentSignature{}, err
	}
	sig, err := SignData(hash, priv)
	if err != nil {
		return domain.DocumentSignature{}, err
	}
	return domain.DocumentSignature{
		DocumentHash: hash,
		Signature:    sig,
		Certificate:  cert,
		Timestamp:    now.UnixMilli(),
	}, nil
}

// CheckDocumentSignature recomputes the hash of file and compares it with
// the signed hash before verifying the signature under pubRaw.
func CheckDocumentSignature(file domain.File, sig domain.DocumentSignature, pubRaw []byte) error {
	hash, err := HashDocument(file)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDocumentTampered, err)
	}
	if !codec.Equal([]byte(hash), []byte(sig.DocumentHash)) {
		return domain.ErrDocumentTampered
	}
	return CheckSignature(sig.DocumentHash, sig.Signature, pubRaw)
}

// VerifyDocumentSignature is the boolean form of CheckDocumentSignature.
func VerifyDocumentSignature(file domain.File, sig domain.DocumentSignature, pubRaw []byte) bool {
	return CheckDocumentSignature(file, sig, pubRaw) == nil
}
