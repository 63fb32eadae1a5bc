package identity

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"certchat/internal/crypto"
	"certchat/internal/domain"
	"certchat/internal/services/session"
)

const (
	// maxDisplayNameLength is the longest accepted display name in runes.
	maxDisplayNameLength = 32
	suffixBytes          = 3
)

// Service creates identities inside a session.
type Service struct {
	session      *session.Session
	validityDays int
	log          zerolog.Logger
}

// New returns an identity service. validityDays <= 0 uses the CA default.
func New(s *session.Session, validityDays int, log zerolog.Logger) *Service {
	return &Service{
		session:      s,
		validityDays: validityDays,
		log:          log.With().Str("component", "identity").Logger(),
	}
}

// CreateIdentity creates a certified identity for the current session.
//
// Steps:
//  1. Normalise and validate displayName (see NormalizeDisplayName).
//  2. Append a random "#xxxxxx" suffix so equal names get distinct subjects.
//  3. Generate a P-256 leaf key pair.
//  4. Have the session CA issue a certificate for the subject, creating the
//     CA on first use.
//
// The caller owns the returned private key and should Wipe the identity when
// done.
func (s *Service) CreateIdentity(ctx context.Context, displayName domain.Username) (domain.Identity, error) {
	name, err := NormalizeDisplayName(string(displayName))
	if err != nil {
		return domain.Identity{}, err
	}
	suffix, err := crypto.Random(suffixBytes)
	if err != nil {
		return domain.Identity{}, err
	}
	subject := name + "#" + hex.EncodeToString(suffix)

	var id domain.Identity
	err = s.session.Use(func(c session.Components) error {
		kp, err := c.Certificates.GenerateSigningKeyPair()
		if err != nil {
			return err
		}
		raw, err := crypto.ExportPublicKey(kp.Public)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrKeyGenerationFailed, err)
		}
		cert, err := c.Certificates.IssueCertificate(ctx, subject, raw, s.validityDays)
		if err != nil {
			kp.Wipe()
			return err
		}
		id = domain.Identity{DisplayName: domain.Username(name), Certificate: cert, Keys: kp}
		return nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	s.log.Info().
		Str("subject", subject).
		Str("fingerprint", s.FingerprintIdentity(id).String()).
		Msg("identity created")
	return id, nil
}

// FingerprintIdentity returns a short fingerprint of the certified public key.
func (s *Service) FingerprintIdentity(id domain.Identity) domain.Fingerprint {
	return domain.Fingerprint(crypto.Fingerprint(id.Certificate.PublicKey))
}

// NormalizeDisplayName trims spaces and rejects names that are empty, too
// long, contain '#', contain U+FFFD or contain non-printable runes.
func NormalizeDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidDisplayName)
	case !utf8.ValidString(name):
		return "", fmt.Errorf("%w: not utf-8", domain.ErrInvalidDisplayName)
	case utf8.RuneCountInString(name) > maxDisplayNameLength:
		return "", fmt.Errorf("%w: longer than %d characters", domain.ErrInvalidDisplayName, maxDisplayNameLength)
	case strings.ContainsRune(name, '#'):
		return "", fmt.Errorf("%w: '#' is reserved", domain.ErrInvalidDisplayName)
	}
	for _, r := range name {
		if r == utf8.RuneError {
			return "", fmt.Errorf("%w: replacement character", domain.ErrInvalidDisplayName)
		}
		if !unicode.IsPrint(r) {
			return "", fmt.Errorf("%w: non-printable character", domain.ErrInvalidDisplayName)
		}
	}
	return name, nil
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
