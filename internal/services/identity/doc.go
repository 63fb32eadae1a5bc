// Package identity creates session identities: an ECDSA P-256 key pair plus a
// certificate issued by the session CA for "<display name>#<suffix>".
//
// The random suffix keeps two participants with the same display name apart.
package identity
