package document

import (
	"time"

	"certchat/internal/domain"
	"certchat/internal/signer"
)

// CheckDetached verifies an ECDSA signature file outside the session that
// issued it: the document hash and signature are checked against the key in
// the embedded certificate, and the certificate must not have expired at now.
// The issuing CA cannot be checked once its session is gone, so a nil result
// proves integrity and key possession, not identity.
func CheckDetached(file domain.File, sig domain.DocumentSignature, now time.Time) error {
	cert := sig.Certificate
	if cert.IssuedAt > cert.ExpiresAt {
		return domain.ErrMalformedCertificate
	}
	if err := signer.CheckDocumentSignature(file, sig, cert.PublicKey); err != nil {
		return err
	}
	if cert.ExpiredAt(now) {
		return domain.ErrCertificateExpired
	}
	return nil
}
