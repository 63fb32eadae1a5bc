package ratchet

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"certchat/internal/codec"
	"certchat/internal/crypto"
	"certchat/internal/domain"
)

const (
	// KeySize is the size of a derived message key.
	KeySize = crypto.AESKeySize
	// SaltSize is the size of the per-message HKDF salt.
	SaltSize = 32
	// IVSize is the size of the AES-GCM IV.
	IVSize = crypto.GCMNonceSize

	infoMessage = "certchat/fs/message/"
	infoRatchet = "certchat/fs/ratchet"
	infoInitial = "certchat/fs/initial"
)

var (
	// ErrEmptySecret is returned when a shared secret is missing.
	ErrEmptySecret = errors.New("empty shared secret")
	// ErrMalformedEnvelope is returned for envelopes with bad IV or salt sizes.
	ErrMalformedEnvelope = errors.New("malformed envelope")
)

// Ratchet holds the session message counter.
type Ratchet struct {
	counter atomic.Uint64
}

// New returns a Ratchet whose first message index is 1.
func New() *Ratchet { return &Ratchet{} }

// Info returns the HKDF info for message index.
func Info(index uint64) []byte {
	return strconv.AppendUint([]byte(infoMessage), index, 10)
}

// DeriveMessageKey derives a KeySize-byte key with HKDF-SHA256.
func DeriveMessageKey(sharedSecret, salt, info []byte) ([]byte, error) {
	if len(sharedSecret) == 0 {
		return nil, ErrEmptySecret
	}
	return crypto.HKDF(sharedSecret, salt, info, KeySize)
}

// Encrypt seals message under a one-time key and returns the envelope with
// the index the receiver needs.
func (r *Ratchet) Encrypt(message string, sharedSecret []byte) (domain.EncryptedEnvelope, uint64, error) {
	salt, err := crypto.Random(SaltSize)
	if err != nil {
		return domain.EncryptedEnvelope{}, 0, err
	}
	iv, err := crypto.Random(IVSize)
	if err != nil {
		return domain.EncryptedEnvelope{}, 0, err
	}

	index := r.counter.Add(1)
	info := Info(index)
	key, err := DeriveMessageKey(sharedSecret, salt, info)
	if err != nil {
		return domain.EncryptedEnvelope{}, 0, err
	}
	defer codec.Wipe(key)

	ct, err := crypto.SealGCM(key, iv, codec.TextToBytes(message), info)
	if err != nil {
		return domain.EncryptedEnvelope{}, 0, fmt.Errorf("seal: %w", err)
	}
	return domain.EncryptedEnvelope{Data: ct, IV: iv, Salt: salt}, index, nil
}

// Decrypt opens an envelope produced by Encrypt at messageIndex.
func Decrypt(env domain.EncryptedEnvelope, sharedSecret []byte, messageIndex uint64) (string, error) {
	if !env.HasSalt() {
		return "", domain.ErrMissingSalt
	}
	if len(env.Salt) != SaltSize || len(env.IV) != IVSize {
		return "", ErrMalformedEnvelope
	}
	info := Info(messageIndex)
	key, err := DeriveMessageKey(sharedSecret, env.Salt, info)
	if err != nil {
		return "", err
	}
	defer codec.Wipe(key)

	pt, err := crypto.OpenGCM(key, env.IV, env.Data, info)
	if err != nil {
		return "", err
	}
	return codec.BytesToText(pt)
}

// ResetCounter restarts indices at 1.
func (r *Ratchet) ResetCounter() { r.counter.Store(0) }

// Counter returns the last index handed out.
func (r *Ratchet) Counter() uint64 { return r.counter.Load() }

// GenerateEphemeral returns a fresh X25519 key pair for a ratchet step.
func GenerateEphemeral() (domain.X25519Private, domain.X25519Public, error) {
	return crypto.GenerateX25519()
}

// Agree derives an initial shared secret from an X25519 exchange.
func Agree(priv domain.X25519Private, peerPub domain.X25519Public) ([]byte, error) {
	dh, err := crypto.DH(priv, peerPub)
	if err != nil {
		return nil, err
	}
	defer codec.Wipe(dh[:])
	return crypto.HKDF(dh[:], nil, []byte(infoInitial), KeySize)
}

// RatchetKeys returns the successor of currentSecret. Both sides compute the
// same value from their own ephemeral private key and the peer's public key.
func RatchetKeys(
	currentSecret []byte,
	ephemeralPriv domain.X25519Private,
	peerEphemeralPub domain.X25519Public,
) ([]byte, error) {
	if len(currentSecret) == 0 {
		return nil, ErrEmptySecret
	}
	dh, err := crypto.DH(ephemeralPriv, peerEphemeralPub)
	if err != nil {
		return nil, err
	}
	defer codec.Wipe(dh[:])
	return crypto.HKDF(dh[:], currentSecret, []byte(infoRatchet), KeySize)
}

// Seal encrypts with a static key and no salt. Envelopes from Seal cannot be
// opened with Decrypt.
func Seal(key []byte, message string) (domain.EncryptedEnvelope, error) {
	iv, err := crypto.Random(IVSize)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	ct, err := crypto.SealGCM(key, iv, codec.TextToBytes(message), nil)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	return domain.EncryptedEnvelope{Data: ct, IV: iv}, nil
}

// Open decrypts an envelope produced by Seal.
func Open(key []byte, env domain.EncryptedEnvelope) (string, error) {
	if len(env.IV) != IVSize {
		return "", ErrMalformedEnvelope
	}
	pt, err := crypto.OpenGCM(key, env.IV, env.Data, nil)
	if err != nil {
		return "", err
	}
	return codec.BytesToText(pt)
}
