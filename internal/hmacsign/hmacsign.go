package hmacsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"certchat/internal/codec"
	"certchat/internal/crypto"
	"certchat/internal/domain"
	"certchat/internal/metrics"
)

// KeySize is the length of a generated session key in bytes.
const KeySize = 64

// ErrInvalidKey is returned for an empty or undecodable session key.
var ErrInvalidKey = errors.New("invalid session key")

// ErrNotUTF8 is returned when a file name or type is not valid UTF-8 and so
// has no single canonical encoding in the MAC payload.
var ErrNotUTF8 = errors.New("file name or type is not valid utf-8")

var keyIDLabel = []byte("certchat/hmac/key-id")

// payload is the canonical MAC input. Field order is fixed.
type payload struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
}

// Signer holds at most one session key.
type Signer struct {
	mu  sync.Mutex
	key []byte

	now     func() time.Time
	log     zerolog.Logger
	metrics *metrics.Recorder
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock replaces time.Now for signature timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Signer) { s.log = l.With().Str("component", "hmacsign").Logger() }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Signer) { s.metrics = r }
}

// New returns a Signer without a key.
func New(opts ...Option) *Signer {
	s := &Signer{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateSessionKey replaces the held key with KeySize random bytes and
// returns its base64 export. The caller must keep the export: Reset loses
// the in-memory copy.
func (s *Signer) GenerateSessionKey() (string, error) {
	key, err := crypto.Random(KeySize)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrKeyGenerationFailed, err)
	}

	s.mu.Lock()
	codec.Wipe(s.key)
	s.key = key
	s.mu.Unlock()

	s.log.Info().Str("key_id", KeyID(key).String()).Msg("session key generated")
	return codec.ToBase64(key), nil
}

// CurrentKeyID returns the id of the held key, if any.
func (s *Signer) CurrentKeyID() (domain.KeyID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.key) == 0 {
		return "", false
	}
	return KeyID(s.key), true
}

// Reset wipes the held key. Signing without an explicit key then fails with
// ErrNoSigningKey.
func (s *Signer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	codec.Wipe(s.key)
	s.key = nil
}

// SignFile MACs file under key, or under the held key when key is nil.
func (s *Signer) SignFile(file domain.File, key []byte) (domain.SymmetricSignature, error) {
	if key == nil {
		s.mu.Lock()
		key = codec.Clone(s.key)
		s.mu.Unlock()
		defer codec.Wipe(key)
	}
	if len(key) == 0 {
		return domain.SymmetricSignature{}, domain.ErrNoSigningKey
	}
	if !canonicalText(file) {
		return domain.SymmetricSignature{}, fmt.Errorf("%q: %w", file.Name(), ErrNotUTF8)
	}

	ts := s.now().UnixMilli()
	mac, err := computeMAC(file, key, ts)
	if err != nil {
		return domain.SymmetricSignature{}, err
	}
	s.metrics.Signed(domain.AlgorithmHMAC)
	return domain.SymmetricSignature{
		Filename:  file.Name(),
		Size:      file.Size(),
		Type:      file.Type(),
		Timestamp: ts,
		Signature: codec.ToBase64(mac),
	}, nil
}

// CheckFile rebuilds the payload from file and originalTimestamp and compares
// MACs in constant time.
func CheckFile(file domain.File, signatureB64 string, key []byte, originalTimestamp int64) error {
	if len(key) == 0 {
		return domain.ErrNoSigningKey
	}
	want, err := codec.FromBase64(signatureB64)
	if err != nil || !canonicalText(file) {
		return domain.ErrSignatureMismatch
	}
	got, err := computeMAC(file, key, originalTimestamp)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDocumentTampered, err)
	}
	if !hmac.Equal(got, want) {
		return domain.ErrSignatureMismatch
	}
	return nil
}

// VerifyFile is the boolean form of CheckFile.
func VerifyFile(file domain.File, signatureB64 string, key []byte, originalTimestamp int64) bool {
	return CheckFile(file, signatureB64, key, originalTimestamp) == nil
}

// KeyID derives a short public identifier for key.
func KeyID(key []byte) domain.KeyID {
	m := hmac.New(sha256.New, key)
	m.Write(keyIDLabel)
	return domain.KeyID(base58.Encode(m.Sum(nil)[:8]))
}

// ParseKey decodes a pasted or exported session key.
func ParseKey(b64 string) ([]byte, error) {
	key, err := codec.DecodeBase64(b64)
	if err != nil || len(key) == 0 {
		return nil, ErrInvalidKey
	}
	return key, nil
}

func canonicalText(file domain.File) bool {
	return utf8.ValidString(file.Name()) && utf8.ValidString(file.Type())
}

func computeMAC(file domain.File, key []byte, ts int64) ([]byte, error) {
	content, err := domain.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", file.Name(), err)
	}
	msg, err := json.Marshal(payload{
		Filename:  file.Name(),
		Size:      file.Size(),
		Type:      file.Type(),
		Timestamp: ts,
		Content:   codec.ToBase64(content),
	})
	if err != nil {
		return nil, err
	}
	m := hmac.New(sha256.New, key)
	m.Write(msg)
	return m.Sum(nil), nil
}
