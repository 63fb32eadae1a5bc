package types

import (
	"strings"
	"time"
)

// CertificateAuthority is the session's self-signed trust anchor.
// PrivateKey is PKCS8 and is empty in public views.
type CertificateAuthority struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PublicKey  []byte `json:"publicKey"`
	PrivateKey []byte `json:"privateKey,omitempty"`
}

// Certificate binds a subject to a P-256 public key (raw uncompressed point).
// IssuedAt and ExpiresAt are Unix milliseconds. Signature is the CA's raw
// r||s signature over the canonical encoding of the preceding fields.
type Certificate struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	PublicKey []byte `json:"publicKey"`
	Issuer    string `json:"issuer"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
	Signature []byte `json:"signature"`
}

// IssuedTime returns IssuedAt as a time.Time.
func (c Certificate) IssuedTime() time.Time { return time.UnixMilli(c.IssuedAt) }

// ExpiryTime returns ExpiresAt as a time.Time.
func (c Certificate) ExpiryTime() time.Time { return time.UnixMilli(c.ExpiresAt) }

// ExpiredAt reports whether the certificate is no longer valid at now.
func (c Certificate) ExpiredAt(now time.Time) bool { return now.UnixMilli() >= c.ExpiresAt }

// DisplayName returns the subject without its uniqueness suffix.
func (c Certificate) DisplayName() Username {
	if i := strings.LastIndexByte(c.Subject, '#'); i >= 0 {
		return Username(c.Subject[:i])
	}
	return Username(c.Subject)
}
