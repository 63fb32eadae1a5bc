// Package crypto exposes the primitives used by certchat.
//
// Contents
//
//   - ECDSA P-256 key generation, raw/PKCS8 export and import, and raw r||s
//     signatures normalised to low-S (GenerateP256, ExportPublicKey,
//     ImportPublicKey, ExportPrivateKey, ImportPrivateKey, SignP256, VerifyP256)
//   - SHA-256 over buffers and streams (SHA256, HashReader)
//   - HKDF-SHA256 (HKDF)
//   - AES-256-GCM with caller-chosen IV (SealGCM, OpenGCM)
//   - X25519 key generation and Diffie–Hellman (GenerateX25519, DH)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Randomness that reports provider failure as domain.ErrCryptoUnavailable (Random)
//
// # Notes
//
// ECDSA signatures are the 64-byte IEEE P1363 form. Signing always emits the
// low-S variant and VerifyP256 rejects high-S values, so a signature has
// exactly one accepted encoding.
package crypto
