// Package signer implements detached ECDSA P-256/SHA-256 signatures over
// messages and documents.
//
// Everything here is a pure function of its inputs and safe for concurrent
// use. Verification helpers come in two forms: Verify* returns a bool and
// never fails loudly, Check* returns the reason (ErrDocumentTampered,
// ErrSignatureMismatch, ErrMalformedCertificate) for callers that need to tell
// the user what went wrong.
//
// Documents are signed by hash: the signature covers the base64 SHA-256 of
// the full content, so the signed payload has the same size for every file.
package signer
