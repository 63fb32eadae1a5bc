// Package ratchet derives one-time message keys for forward secrecy.
//
// Every Encrypt call draws a fresh 32-byte salt and 12-byte IV, takes the
// next value of the session counter, and derives an AES-256-GCM key with
// HKDF-SHA256(sharedSecret, salt, "certchat/fs/message/<index>"). The index
// travels next to the envelope; the receiver must pass it back to Decrypt
// because the derivation context is positional, not content-derived.
//
// RatchetKeys mixes an X25519 exchange between fresh ephemeral keys into the
// current secret to produce its successor. When to ratchet is left to the
// caller.
//
// Concurrency: a Ratchet is safe for concurrent use. The counter is atomic,
// so concurrent Encrypt calls never share an index. ResetCounter must run at
// the start of each session and never while the old secret is still in use.
package ratchet
