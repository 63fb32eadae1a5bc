package ratchet_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/crypto"
	"certchat/internal/domain"
	"certchat/internal/protocol/ratchet"
)

var secret = bytes.Repeat([]byte{0x42}, 32)

func TestEncryptDecrypt(t *testing.T) {
	r := ratchet.New()
	env, idx, err := r.Encrypt("hello", secret)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)
	assert.Len(t, env.Salt, ratchet.SaltSize)
	assert.Len(t, env.IV, ratchet.IVSize)

	pt, err := ratchet.Decrypt(env, secret, idx)
	require.NoError(t, err)
	assert.Equal(t, "hello", pt)

	_, err = ratchet.Decrypt(env, secret, idx+1)
	assert.Error(t, err, "index is part of the key derivation")

	other := bytes.Repeat([]byte{0x43}, 32)
	_, err = ratchet.Decrypt(env, other, idx)
	assert.Error(t, err)
}

func TestEncrypt_Uniqueness(t *testing.T) {
	r := ratchet.New()
	a, ia, err := r.Encrypt("same", secret)
	require.NoError(t, err)
	b, ib, err := r.Encrypt("same", secret)
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Data, b.Data)
	assert.Less(t, ia, ib)
}

func TestDecrypt_MissingSalt(t *testing.T) {
	r := ratchet.New()
	env, idx, err := r.Encrypt("hello", secret)
	require.NoError(t, err)
	env.Salt = nil
	_, err = ratchet.Decrypt(env, secret, idx)
	assert.ErrorIs(t, err, domain.ErrMissingSalt)

	sealed, err := ratchet.Seal(secret, "static")
	require.NoError(t, err)
	assert.False(t, sealed.HasSalt())
	_, err = ratchet.Decrypt(sealed, secret, 1)
	assert.ErrorIs(t, err, domain.ErrMissingSalt)

	pt, err := ratchet.Open(secret, sealed)
	require.NoError(t, err)
	assert.Equal(t, "static", pt)
}

func TestConcurrentEncryptNeverReusesIndex(t *testing.T) {
	r := ratchet.New()
	const workers, per = 8, 50

	var (
		mu   sync.Mutex
		seen = make(map[uint64]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				_, idx, err := r.Encrypt("x", secret)
				if err != nil {
					t.Errorf("Encrypt: %v", err)
					return
				}
				mu.Lock()
				if seen[idx] {
					t.Errorf("index %d reused", idx)
				}
				seen[idx] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*per)
	assert.Equal(t, uint64(workers*per), r.Counter())
}

func TestResetCounter(t *testing.T) {
	r := ratchet.New()
	_, _, err := r.Encrypt("a", secret)
	require.NoError(t, err)
	r.ResetCounter()
	assert.Zero(t, r.Counter())
	_, idx, err := r.Encrypt("b", secret)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)
}

func TestInfoAndDerive(t *testing.T) {
	assert.Equal(t, "certchat/fs/message/17", string(ratchet.Info(17)))

	salt := bytes.Repeat([]byte{1}, ratchet.SaltSize)
	k1, err := ratchet.DeriveMessageKey(secret, salt, ratchet.Info(1))
	require.NoError(t, err)
	k2, err := ratchet.DeriveMessageKey(secret, salt, ratchet.Info(2))
	require.NoError(t, err)
	assert.Len(t, k1, ratchet.KeySize)
	assert.NotEqual(t, k1, k2, "same salt, different index must give different keys")

	_, err = ratchet.DeriveMessageKey(nil, salt, ratchet.Info(1))
	assert.ErrorIs(t, err, ratchet.ErrEmptySecret)
}

func TestAgreeAndRatchet(t *testing.T) {
	aPriv, aPub, err := ratchet.GenerateEphemeral()
	require.NoError(t, err)
	bPriv, bPub, err := ratchet.GenerateEphemeral()
	require.NoError(t, err)

	sa, err := ratchet.Agree(aPriv, bPub)
	require.NoError(t, err)
	sb, err := ratchet.Agree(bPriv, aPub)
	require.NoError(t, err)
	require.Equal(t, sa, sb)

	aEph, aEphPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	bEph, bEphPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	na, err := ratchet.RatchetKeys(sa, aEph, bEphPub)
	require.NoError(t, err)
	nb, err := ratchet.RatchetKeys(sb, bEph, aEphPub)
	require.NoError(t, err)
	assert.Equal(t, na, nb)
	assert.NotEqual(t, sa, na)

	r := ratchet.New()
	env, idx, err := r.Encrypt("after ratchet", na)
	require.NoError(t, err)
	_, err = ratchet.Decrypt(env, sa, idx)
	assert.Error(t, err, "old secret must not open new messages")
	pt, err := ratchet.Decrypt(env, nb, idx)
	require.NoError(t, err)
	assert.Equal(t, "after ratchet", pt)

	_, err = ratchet.RatchetKeys(nil, aEph, bEphPub)
	assert.ErrorIs(t, err, ratchet.ErrEmptySecret)
}
