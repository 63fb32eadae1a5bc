// Package document signs files with either scheme and verifies detached
// signature files through a single entry point.
//
// ParseScheme reads a signature file and returns the matching
// domain.SignatureScheme variant; Verify switches over that variant, so there
// is one verification call site for both ECDSA and HMAC signatures.
package document
