package crypto_test

import (
	"bytes"
	"crypto/elliptic"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/crypto"
)

func TestP256ExportImport(t *testing.T) {
	kp, err := crypto.GenerateP256()
	require.NoError(t, err)
	require.True(t, kp.Valid())

	raw, err := crypto.ExportPublicKey(kp.Public)
	require.NoError(t, err)
	assert.Len(t, raw, crypto.P256PublicKeySize)
	assert.Equal(t, byte(0x04), raw[0])

	pub, err := crypto.ImportPublicKey(raw)
	require.NoError(t, err)
	assert.True(t, pub.Equal(kp.Public))

	der, err := crypto.ExportPrivateKey(kp.Private)
	require.NoError(t, err)
	priv, err := crypto.ImportPrivateKey(der)
	require.NoError(t, err)
	assert.True(t, priv.Equal(kp.Private))

	_, err = crypto.ImportPublicKey(raw[:40])
	assert.Error(t, err)
	_, err = crypto.ImportPrivateKey([]byte("junk"))
	assert.Error(t, err)
}

func TestSignVerifyP256(t *testing.T) {
	kp, err := crypto.GenerateP256()
	require.NoError(t, err)
	other, err := crypto.GenerateP256()
	require.NoError(t, err)

	msg := []byte("hello")
	sig, err := crypto.SignP256(kp.Private, msg)
	require.NoError(t, err)
	assert.Len(t, sig, crypto.P256SignatureSize)

	assert.True(t, crypto.VerifyP256(kp.Public, msg, sig))
	assert.False(t, crypto.VerifyP256(kp.Public, []byte("hellp"), sig))
	assert.False(t, crypto.VerifyP256(other.Public, msg, sig))
	assert.False(t, crypto.VerifyP256(kp.Public, msg, sig[:63]))
	assert.False(t, crypto.VerifyP256(nil, msg, sig))
}

func TestVerifyP256_RejectsHighS(t *testing.T) {
	kp, err := crypto.GenerateP256()
	require.NoError(t, err)
	msg := []byte("malleable?")

	for i := 0; i < 8; i++ {
		sig, err := crypto.SignP256(kp.Private, msg)
		require.NoError(t, err)

		n := elliptic.P256().Params().N
		s := new(big.Int).SetBytes(sig[crypto.P256ScalarSize:])
		require.True(t, s.Cmp(new(big.Int).Rsh(n, 1)) <= 0, "signer must emit low-S")

		flipped := bytes.Clone(sig)
		new(big.Int).Sub(n, s).FillBytes(flipped[crypto.P256ScalarSize:])
		assert.False(t, crypto.VerifyP256(kp.Public, msg, flipped))
	}
}

func TestHashReader(t *testing.T) {
	data := strings.Repeat("x", 1<<16+3)
	got, err := crypto.HashReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, crypto.SHA256([]byte(data)), got)
}

func TestHKDF(t *testing.T) {
	a, err := crypto.HKDF([]byte("secret"), []byte("salt"), []byte("info/1"), 32)
	require.NoError(t, err)
	b, err := crypto.HKDF([]byte("secret"), []byte("salt"), []byte("info/1"), 32)
	require.NoError(t, err)
	c, err := crypto.HKDF([]byte("secret"), []byte("salt"), []byte("info/2"), 32)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestGCM(t *testing.T) {
	key := bytes.Repeat([]byte{7}, crypto.AESKeySize)
	iv := bytes.Repeat([]byte{1}, crypto.GCMNonceSize)

	ct, err := crypto.SealGCM(key, iv, []byte("payload"), []byte("ad"))
	require.NoError(t, err)
	pt, err := crypto.OpenGCM(key, iv, ct, []byte("ad"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(pt))

	ct[0] ^= 1
	_, err = crypto.OpenGCM(key, iv, ct, []byte("ad"))
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	_, err = crypto.SealGCM(key[:16], iv, nil, nil)
	assert.ErrorIs(t, err, crypto.ErrInvalidKeySize)
	_, err = crypto.SealGCM(key, iv[:8], nil, nil)
	assert.ErrorIs(t, err, crypto.ErrInvalidNonceSize)
}

func TestX25519Agreement(t *testing.T) {
	aPriv, aPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	bPriv, bPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	ab, err := crypto.DH(aPriv, bPub)
	require.NoError(t, err)
	ba, err := crypto.DH(bPriv, aPub)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	var zero [32]byte
	_, err = crypto.DH(aPriv, zero)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	fp := crypto.Fingerprint([]byte("public key"))
	assert.Equal(t, fp, crypto.Fingerprint([]byte("public key")))
	assert.NotEqual(t, fp, crypto.Fingerprint([]byte("public kez")))
	assert.NotEmpty(t, fp)
}
