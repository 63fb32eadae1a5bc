package pki

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"certchat/internal/codec"
	"certchat/internal/domain"
)

// canonicalCertificate fixes the field order of the signed tuple.
// encoding/json emits struct fields in declaration order.
type canonicalCertificate struct {
	Subject   string `json:"subject"`
	PublicKey string `json:"publicKey"`
	Issuer    string `json:"issuer"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ErrNotUTF8 is returned for text fields that are not valid UTF-8. The JSON
// encoder would replace such bytes with U+FFFD, mapping distinct certificates
// onto the same signed bytes.
var ErrNotUTF8 = errors.New("certificate field is not valid utf-8")

// CanonicalBytes returns the bytes the CA signs for cert. Only the cert's own
// fields are used; ID and Signature are excluded.
func CanonicalBytes(cert domain.Certificate) ([]byte, error) {
	if !utf8.ValidString(cert.Subject) || !utf8.ValidString(cert.Issuer) {
		return nil, ErrNotUTF8
	}
	return json.Marshal(canonicalCertificate{
		Subject:   cert.Subject,
		PublicKey: codec.ToBase64(cert.PublicKey),
		Issuer:    cert.Issuer,
		IssuedAt:  cert.IssuedAt,
		ExpiresAt: cert.ExpiresAt,
	})
}
