// Package pki owns the session Certificate Authority.
//
// A Manager lazily creates a self-signed ECDSA P-256 CA on first use, issues
// short-lived leaf certificates over a canonical encoding of
// {subject, publicKey, issuer, issuedAt, expiresAt}, and verifies certificates
// against the current CA only. There is no trust store: after Reset, every
// certificate issued before it stops verifying.
//
// Reset is serialised against Issue and Verify with a RWMutex so a verifier
// never observes a half-replaced CA.
package pki
