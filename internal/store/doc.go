// Package store writes certchat's artefacts to disk.
//
// It covers:
//   - Detached signature files next to the document they sign
//   - Session key export, as plain base64 text or sealed under a passphrase
//   - DiskFile, a domain.File backed by a path on disk
//
// Every write goes through a temp file and an atomic rename, so readers see
// either the old or the new content. Secret files are created 0600.
//
// Sealed exports use scrypt to derive a ChaCha20-Poly1305 key from the
// passphrase; the salt is fresh per export and bound as associated data.
package store
