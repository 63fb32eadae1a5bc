package signer

import (
	"encoding/json"
	"fmt"

	"certchat/internal/domain"
)

// SignatureFileVersion is the only version this package reads and writes.
const SignatureFileVersion = 1

// SignatureFile is the on-disk detached signature envelope.
type SignatureFile struct {
	Version      int                `json:"version"`
	Algorithm    string             `json:"algorithm"`
	DocumentHash string             `json:"documentHash"`
	Signature    string             `json:"signature"`
	Certificate  domain.Certificate `json:"certificate"`
	Timestamp    int64              `json:"timestamp"`
}

// MarshalSignatureFile encodes sig as an indented signature file.
func MarshalSignatureFile(sig domain.DocumentSignature) ([]byte, error) {
	return json.MarshalIndent(SignatureFile{
		Version:      SignatureFileVersion,
		Algorithm:    domain.AlgorithmECDSA,
		DocumentHash: sig.DocumentHash,
		Signature:    sig.Signature,
		Certificate:  sig.Certificate,
		Timestamp:    sig.Timestamp,
	}, "", "  ")
}

// ParseSignatureFile decodes a signature file. Unknown versions or
// algorithms and missing fields yield ErrInvalidSignatureFile.
func ParseSignatureFile(data []byte) (domain.DocumentSignature, error) {
	var f SignatureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.DocumentSignature{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignatureFile, err)
	}
	if f.Version != SignatureFileVersion {
		return domain.DocumentSignature{}, fmt.Errorf("%w: unsupported version %d",
			domain.ErrInvalidSignatureFile, f.Version)
	}
	if f.Algorithm != domain.AlgorithmECDSA {
		return domain.DocumentSignature{}, fmt.Errorf("%w: unsupported algorithm %q",
			domain.ErrInvalidSignatureFile, f.Algorithm)
	}
	switch {
	case f.DocumentHash == "":
		return domain.DocumentSignature{}, fmt.Errorf("%w: missing documentHash", domain.ErrInvalidSignatureFile)
	case f.Signature == "":
		return domain.DocumentSignature{}, fmt.Errorf("%w: missing signature", domain.ErrInvalidSignatureFile)
	case f.Certificate.Subject == "" || len(f.Certificate.PublicKey) == 0:
		return domain.DocumentSignature{}, fmt.Errorf("%w: missing certificate", domain.ErrInvalidSignatureFile)
	case f.Timestamp <= 0:
		return domain.DocumentSignature{}, fmt.Errorf("%w: missing timestamp", domain.ErrInvalidSignatureFile)
	}
	return domain.DocumentSignature{
		DocumentHash: f.DocumentHash,
		Signature:    f.Signature,
		Certificate:  f.Certificate,
		Timestamp:    f.Timestamp,
	}, nil
}
