package pki

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"certchat/internal/codec"
	"certchat/internal/crypto"
	"certchat/internal/domain"
	"certchat/internal/metrics"
)

// authority is the live CA. info.PrivateKey holds the PKCS8 export so Reset
// can wipe it.
type authority struct {
	info domain.CertificateAuthority
	priv *ecdsa.PrivateKey
	pub  *ecdsa.PublicKey
}

// Manager issues and verifies certificates for one session.
type Manager struct {
	mu sync.RWMutex
	ca *authority

	now          func() time.Time
	log          zerolog.Logger
	metrics      *metrics.Recorder
	name         string
	validityDays int
	limiter      *rate.Limiter
}

// NewManager returns a Manager with no CA yet.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:          time.Now,
		log:          zerolog.Nop(),
		name:         DefaultName,
		validityDays: DefaultValidityDays,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InitializeCA creates the CA if none exists. It is idempotent.
func (m *Manager) InitializeCA() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ca != nil {
		return nil
	}

	kp, err := crypto.GenerateP256()
	if err != nil {
		return err
	}
	pubRaw, err := crypto.ExportPublicKey(kp.Public)
	if err != nil {
		return fmt.Errorf("%w: export CA key: %v", domain.ErrKeyGenerationFailed, err)
	}
	der, err := crypto.ExportPrivateKey(kp.Private)
	if err != nil {
		return fmt.Errorf("%w: export CA key: %v", domain.ErrKeyGenerationFailed, err)
	}

	m.ca = &authority{
		info: domain.CertificateAuthority{
			ID:         uuid.NewString(),
			Name:       m.name,
			PublicKey:  pubRaw,
			PrivateKey: der,
		},
		priv: kp.Private,
		pub:  kp.Public,
	}
	m.metrics.AuthorityCreated()
	m.log.Info().
		Str("ca_id", m.ca.info.ID).
		Str("fingerprint", crypto.Fingerprint(pubRaw)).
		Msg("certificate authority created")
	return nil
}

// Reset discards the CA. Certificates issued before Reset no longer verify.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ca == nil {
		return
	}
	id := m.ca.info.ID
	codec.Wipe(m.ca.info.PrivateKey)
	m.ca.priv = nil
	m.ca = nil
	m.log.Info().Str("ca_id", id).Msg("certificate authority discarded")
}

// Authority returns a public view of the CA, or false when there is none.
func (m *Manager) Authority() (domain.CertificateAuthority, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ca == nil {
		return domain.CertificateAuthority{}, false
	}
	view := m.ca.info
	view.PublicKey = codec.Clone(view.PublicKey)
	view.PrivateKey = nil
	return view, true
}

// GenerateSigningKeyPair returns a fresh leaf key pair.
func (m *Manager) GenerateSigningKeyPair() (domain.SigningKeyPair, error) {
	return crypto.GenerateP256()
}

// IssueCertificate signs a certificate for subject and publicKey (raw
// uncompressed P-256 point). validityDays <= 0 selects the configured default.
// The CA is created on first use.
func (m *Manager) IssueCertificate(
	ctx context.Context,
	subject string,
	publicKey []byte,
	validityDays int,
) (domain.Certificate, error) {
	started := time.Now()
	defer m.metrics.ObserveOp("issue_certificate", started)

	if subject == "" {
		return domain.Certificate{}, fmt.Errorf("%w: empty subject", domain.ErrCertificateIssuanceFailed)
	}
	if !utf8.ValidString(subject) {
		return domain.Certificate{}, fmt.Errorf("%w: subject: %w", domain.ErrCertificateIssuanceFailed, ErrNotUTF8)
	}
	if validityDays <= 0 {
		validityDays = m.validityDays
	}
	if validityDays > MaxValidityDays {
		return domain.Certificate{}, fmt.Errorf("%w: validity %d days exceeds %d",
			domain.ErrCertificateIssuanceFailed, validityDays, MaxValidityDays)
	}
	if _, err := crypto.ImportPublicKey(publicKey); err != nil {
		return domain.Certificate{}, fmt.Errorf("%w: subject key: %v", domain.ErrCertificateIssuanceFailed, err)
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return domain.Certificate{}, fmt.Errorf("%w: %v", domain.ErrCertificateIssuanceFailed, err)
		}
	}

	for {
		m.mu.RLock()
		ca := m.ca
		if ca != nil {
			cert, err := m.issueLocked(ca, subject, publicKey, validityDays)
			m.mu.RUnlock()
			return cert, err
		}
		m.mu.RUnlock()

		if err := m.InitializeCA(); err != nil {
			return domain.Certificate{}, fmt.Errorf("%w: %w", domain.ErrCertificateIssuanceFailed, err)
		}
	}
}

// issueLocked must be called with m.mu held for reading.
func (m *Manager) issueLocked(
	ca *authority,
	subject string,
	publicKey []byte,
	validityDays int,
) (domain.Certificate, error) {
	issued := m.now()
	cert := domain.Certificate{
		ID:        uuid.NewString(),
		Subject:   subject,
		PublicKey: codec.Clone(publicKey),
		Issuer:    ca.info.ID,
		IssuedAt:  issued.UnixMilli(),
		ExpiresAt: issued.Add(time.Duration(validityDays) * 24 * time.Hour).UnixMilli(),
	}
	tbs, err := CanonicalBytes(cert)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("%w: encode: %v", domain.ErrCertificateIssuanceFailed, err)
	}
	sig, err := crypto.SignP256(ca.priv, tbs)
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("%w: sign: %v", domain.ErrCertificateIssuanceFailed, err)
	}
	cert.Signature = sig

	m.metrics.CertificateIssued()
	m.log.Debug().
		Str("cert_id", cert.ID).
		Str("subject", subject).
		Str("fingerprint", crypto.Fingerprint(publicKey)).
		Time("expires", cert.ExpiryTime()).
		Msg("certificate issued")
	return cert, nil
}

// CheckCertificate explains why cert is not valid right now, or returns nil.
// The reason is one of ErrNoAuthority, ErrMalformedCertificate,
// ErrCertificateUntrusted or ErrCertificateExpired.
func (m *Manager) CheckCertificate(cert domain.Certificate) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ca == nil {
		return domain.ErrNoAuthority
	}
	if cert.Subject == "" || !utf8.ValidString(cert.Subject) || len(cert.Signature) != crypto.P256SignatureSize {
		return domain.ErrMalformedCertificate
	}
	if cert.IssuedAt > cert.ExpiresAt {
		return domain.ErrMalformedCertificate
	}
	if _, err := crypto.ImportPublicKey(cert.PublicKey); err != nil {
		return domain.ErrMalformedCertificate
	}
	tbs, err := CanonicalBytes(cert)
	if err != nil {
		return domain.ErrMalformedCertificate
	}
	if !crypto.VerifyP256(m.ca.pub, tbs, cert.Signature) {
		return domain.ErrCertificateUntrusted
	}
	if cert.ExpiredAt(m.now()) {
		return domain.ErrCertificateExpired
	}
	return nil
}

// VerifyCertificate reports whether cert was issued by the current CA and has
// not expired.
func (m *Manager) VerifyCertificate(cert domain.Certificate) bool {
	err := m.CheckCertificate(cert)
	m.metrics.Verified(metrics.KindCertificate, err == nil)
	if err != nil {
		m.log.Debug().Str("cert_id", cert.ID).Err(err).Msg("certificate rejected")
	}
	return err == nil
}
