// Package session is the explicit owner of one chat session's key material.
//
// A Session holds the certificate Manager, the HMAC signer and the
// forward-secrecy Ratchet. Services reach them only through Use, which holds
// a read lock for the duration of the callback; Reset and End take the write
// lock, so neither can interleave with an in-flight operation.
//
// After End every Use fails with domain.ErrSessionEnded and the CA and session
// key are gone. Certificates from an ended session never verify again, even
// if their expiresAt is still in the future.
package session
