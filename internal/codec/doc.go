// Package codec holds the byte, text and base64 conversions shared by every
// signing component, plus best-effort wiping of secret buffers.
//
// Wipe is hygiene, not a secure-erase guarantee: the Go runtime may have
// copied or moved the bytes (append growth, GC, string conversions) and those
// copies are out of reach.
package codec
