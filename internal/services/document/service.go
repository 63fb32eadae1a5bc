package document

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/metrics"
	"certchat/internal/services/session"
	"certchat/internal/signer"
)

// Service signs and verifies documents.
//
// Two schemes are supported:
//   - Asymmetric: ECDSA over the document hash, carrying the signer's
//     certificate so the signature file is self-contained.
//   - Symmetric: HMAC over the file's metadata and content under the session
//     key. The key travels out of band and is never written to the file.
type Service struct {
	session *session.Session
	now     func() time.Time
	log     zerolog.Logger
	metrics *metrics.Recorder
}

// New returns a document service bound to s.
func New(s *session.Session, now func() time.Time, log zerolog.Logger, rec *metrics.Recorder) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		session: s,
		now:     now,
		log:     log.With().Str("component", "document").Logger(),
		metrics: rec,
	}
}

// SignAsymmetric produces a detached ECDSA signature carrying id's certificate.
func (s *Service) SignAsymmetric(
	ctx context.Context,
	file domain.File,
	id domain.Identity,
) (domain.DocumentSignature, error) {
	if err := ctx.Err(); err != nil {
		return domain.DocumentSignature{}, err
	}
	if !id.Keys.Valid() {
		return domain.DocumentSignature{}, domain.ErrNoSigningKey
	}
	var sig domain.DocumentSignature
	err := s.session.Use(func(session.Components) error {
		var err error
		sig, err = signer.SignDocument(file, id.Keys.Private, id.Certificate, s.now())
		return err
	})
	if err != nil {
		return domain.DocumentSignature{}, err
	}
	s.metrics.Signed(domain.AlgorithmECDSA)
	s.log.Debug().Str("file", file.Name()).Str("subject", id.Certificate.Subject).Msg("document signed")
	return sig, nil
}

// SignSymmetric MACs file under the session key and returns the key's id.
func (s *Service) SignSymmetric(
	ctx context.Context,
	file domain.File,
) (domain.SymmetricSignature, domain.KeyID, error) {
	if err := ctx.Err(); err != nil {
		return domain.SymmetricSignature{}, "", err
	}
	var (
		sig domain.SymmetricSignature
		id  domain.KeyID
	)
	err := s.session.Use(func(c session.Components) error {
		var ok bool
		if id, ok = c.Symmetric.CurrentKeyID(); !ok {
			return domain.ErrNoSigningKey
		}
		var err error
		sig, err = c.Symmetric.SignFile(file, nil)
		return err
	})
	if err != nil {
		return domain.SymmetricSignature{}, "", err
	}
	s.log.Debug().Str("file", file.Name()).Str("key_id", id.String()).Msg("document mac'd")
	return sig, id, nil
}

// Verify checks file against scheme and returns a Verdict, never an error.
//
// Asymmetric:
//  1. Check the embedded certificate against the live session CA.
//  2. Re-hash the file and compare with the signed hash.
//  3. Check the signature over the hash with the certified key.
//
// Symmetric:
//  1. Look up the key by the scheme's KeyID in keys.
//  2. Reject a key whose id does not match with ErrWrongKey.
//  3. Recompute the MAC with the signature's original timestamp and compare.
func (s *Service) Verify(
	ctx context.Context,
	file domain.File,
	scheme domain.SignatureScheme,
	keys domain.KeyRing,
) domain.Verdict {
	if err := ctx.Err(); err != nil {
		return domain.Reject(err)
	}
	var v domain.Verdict
	switch sch := scheme.(type) {
	case domain.Asymmetric:
		v = s.verifyAsymmetric(file, sch)
		s.metrics.Verified(metrics.KindDocument, v.Valid)
	case domain.Symmetric:
		v = verifySymmetric(file, sch, keys)
		s.metrics.Verified(metrics.KindHMAC, v.Valid)
	default:
		v = domain.Reject(domain.ErrInvalidSignatureFile)
	}
	if !v.Valid {
		s.log.Debug().Str("file", file.Name()).Err(v.Reason).Msg("signature rejected")
	}
	return v
}

func (s *Service) verifyAsymmetric(file domain.File, sch domain.Asymmetric) domain.Verdict {
	var reason error
	err := s.session.Use(func(c session.Components) error {
		reason = c.Certificates.CheckCertificate(sch.Signature.Certificate)
		return nil
	})
	if err != nil {
		return domain.Reject(err)
	}
	if reason != nil {
		return domain.Reject(reason)
	}
	if err := signer.CheckDocumentSignature(file, sch.Signature, sch.Signature.Certificate.PublicKey); err != nil {
		return domain.Reject(err)
	}
	return domain.Accept()
}

func verifySymmetric(file domain.File, sch domain.Symmetric, keys domain.KeyRing) domain.Verdict {
	if keys == nil {
		return domain.Reject(domain.ErrUnknownKey)
	}
	key, ok := keys.LookupKey(sch.KeyID)
	if !ok || len(key) == 0 {
		return domain.Reject(domain.ErrUnknownKey)
	}
	if sch.KeyID != "" && hmacsign.KeyID(key) != sch.KeyID {
		return domain.Reject(domain.ErrWrongKey)
	}
	if err := hmacsign.CheckFile(file, sch.Signature.Signature, key, sch.Signature.Timestamp); err != nil {
		return domain.Reject(err)
	}
	return domain.Accept()
}

// MarshalScheme encodes scheme as its signature file.
func MarshalScheme(scheme domain.SignatureScheme) ([]byte, error) {
	switch sch := scheme.(type) {
	case domain.Asymmetric:
		return signer.MarshalSignatureFile(sch.Signature)
	case domain.Symmetric:
		return hmacsign.MarshalSignatureFile(sch.Signature)
	default:
		return nil, fmt.Errorf("%w: unknown scheme %T", domain.ErrInvalidSignatureFile, scheme)
	}
}

// ParseScheme decodes a signature file of either algorithm. Symmetric schemes
// come back without a KeyID because the file never names its key.
func ParseScheme(data []byte) (domain.SignatureScheme, error) {
	var head struct {
		Algorithm string `json:"algorithm"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignatureFile, err)
	}
	switch head.Algorithm {
	case domain.AlgorithmECDSA:
		sig, err := signer.ParseSignatureFile(data)
		if err != nil {
			return nil, err
		}
		return domain.Asymmetric{Signature: sig}, nil
	case domain.AlgorithmHMAC:
		sig, err := hmacsign.ParseSignatureFile(data)
		if err != nil {
			return nil, err
		}
		return domain.Symmetric{Signature: sig}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q", domain.ErrInvalidSignatureFile, head.Algorithm)
	}
}

// Compile-time assertion that Service implements domain.DocumentService.
var _ domain.DocumentService = (*Service)(nil)
