package hmacsign

import (
	"encoding/json"
	"fmt"

	"certchat/internal/domain"
)

// SignatureFileVersion is the only version this package reads and writes.
const SignatureFileVersion = 1

// SignatureNote is written into every HMAC signature file.
const SignatureNote = "Verify with the session key shared out-of-band. The key is not stored in this file."

// SignatureFile is the on-disk HMAC signature envelope.
type SignatureFile struct {
	Version   int    `json:"version"`
	Algorithm string `json:"algorithm"`
	Filename  string `json:"filename"`
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Note      string `json:"note"`
}

// MarshalSignatureFile encodes sig as an indented signature file.
func MarshalSignatureFile(sig domain.SymmetricSignature) ([]byte, error) {
	return json.MarshalIndent(SignatureFile{
		Version:   SignatureFileVersion,
		Algorithm: domain.AlgorithmHMAC,
		Filename:  sig.Filename,
		Signature: sig.Signature,
		Timestamp: sig.Timestamp,
		Size:      sig.Size,
		Type:      sig.Type,
		Note:      SignatureNote,
	}, "", "  ")
}

// ParseSignatureFile decodes an HMAC signature file.
func ParseSignatureFile(data []byte) (domain.SymmetricSignature, error) {
	var f SignatureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.SymmetricSignature{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignatureFile, err)
	}
	if f.Version != SignatureFileVersion {
		return domain.SymmetricSignature{}, fmt.Errorf("%w: unsupported version %d",
			domain.ErrInvalidSignatureFile, f.Version)
	}
	if f.Algorithm != domain.AlgorithmHMAC {
		return domain.SymmetricSignature{}, fmt.Errorf("%w: unsupported algorithm %q",
			domain.ErrInvalidSignatureFile, f.Algorithm)
	}
	if f.Filename == "" || f.Signature == "" || f.Timestamp <= 0 || f.Size < 0 {
		return domain.SymmetricSignature{}, fmt.Errorf("%w: missing fields", domain.ErrInvalidSignatureFile)
	}
	return domain.SymmetricSignature{
		Filename:  f.Filename,
		Size:      f.Size,
		Type:      f.Type,
		Timestamp: f.Timestamp,
		Signature: f.Signature,
	}, nil
}
