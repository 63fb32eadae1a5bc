package domain

import "errors"

// Failures of issuance and generation paths. These are returned as errors.
var (
	// ErrCryptoUnavailable indicates the platform random source or crypto
	// provider is unusable. Callers should treat it as a setup failure.
	ErrCryptoUnavailable = errors.New("crypto provider unavailable")

	// ErrKeyGenerationFailed indicates a key pair could not be generated.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrCertificateIssuanceFailed indicates the CA could not issue a certificate.
	ErrCertificateIssuanceFailed = errors.New("certificate issuance failed")

	// ErrInvalidSignatureFile indicates a detached signature file is malformed,
	// misses required fields, or carries an unsupported version or algorithm.
	ErrInvalidSignatureFile = errors.New("invalid signature file")

	// ErrNoSigningKey indicates the symmetric signer holds no key.
	ErrNoSigningKey = errors.New("no signing key")

	// ErrMissingSalt indicates a forward-secrecy envelope without a salt.
	ErrMissingSalt = errors.New("envelope has no salt")

	// ErrSessionEnded indicates the session was ended and its keys wiped.
	ErrSessionEnded = errors.New("session ended")

	// ErrInvalidDisplayName indicates a display name that cannot become a subject.
	ErrInvalidDisplayName = errors.New("invalid display name")
)

// Verification failure reasons. Verification APIs return these inside a
// Verdict or from Check* helpers, never from their boolean forms.
var (
	// ErrNoAuthority indicates there is no live CA in this session.
	ErrNoAuthority = errors.New("no certificate authority in session")

	// ErrCertificateUntrusted indicates the CA signature does not validate
	// against the current CA key.
	ErrCertificateUntrusted = errors.New("certificate not issued by current authority")

	// ErrCertificateExpired indicates now is at or past expiresAt.
	ErrCertificateExpired = errors.New("certificate expired")

	// ErrMalformedCertificate indicates a certificate with undecodable fields or
	// inconsistent timestamps.
	ErrMalformedCertificate = errors.New("malformed certificate")

	// ErrDocumentTampered indicates the document hash differs from the signed hash.
	ErrDocumentTampered = errors.New("document content does not match signature")

	// ErrSignatureMismatch indicates the signature does not verify under the key.
	ErrSignatureMismatch = errors.New("signature does not match")

	// ErrWrongKey indicates the key offered for verification is not the one
	// that produced the signature.
	ErrWrongKey = errors.New("wrong key")

	// ErrUnknownKey indicates a symmetric signature whose key is not available.
	ErrUnknownKey = errors.New("signing key not available")
)
