package document_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/metrics"
	"certchat/internal/pki"
	"certchat/internal/protocol/ratchet"
	"certchat/internal/services/document"
	"certchat/internal/services/identity"
	"certchat/internal/services/session"
)

type fixture struct {
	session   *session.Session
	docs      *document.Service
	ids       *identity.Service
	symmetric *hmacsign.Signer
	rec       *metrics.Recorder
}

func newFixture() fixture {
	rec := metrics.New()
	h := hmacsign.New(hmacsign.WithMetrics(rec))
	s := session.New(pki.NewManager(pki.WithMetrics(rec)), h, ratchet.New(), zerolog.Nop())
	return fixture{
		session:   s,
		docs:      document.New(s, time.Now, zerolog.Nop(), rec),
		ids:       identity.New(s, 0, zerolog.Nop()),
		symmetric: h,
		rec:       rec,
	}
}

func report() *domain.MemoryFile {
	return domain.NewMemoryFile("report.pdf", "application/pdf", []byte("%PDF-1.7 fake"))
}

func TestAsymmetricThroughSignatureFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice, err := f.ids.CreateIdentity(ctx, "alice")
	require.NoError(t, err)

	sig, err := f.docs.SignAsymmetric(ctx, report(), alice)
	require.NoError(t, err)

	data, err := document.MarshalScheme(domain.Asymmetric{Signature: sig})
	require.NoError(t, err)
	scheme, err := document.ParseScheme(data)
	require.NoError(t, err)
	require.IsType(t, domain.Asymmetric{}, scheme)

	v := f.docs.Verify(ctx, report(), scheme, nil)
	assert.True(t, v.Valid, "%v", v.Reason)

	tampered := report()
	tampered.Data[0] = 'X'
	v = f.docs.Verify(ctx, tampered, scheme, nil)
	assert.False(t, v.Valid)
	assert.ErrorIs(t, v.Reason, domain.ErrDocumentTampered)

	snap, err := f.rec.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap[`certchat_signatures_total{algorithm="ECDSA-SHA256"}`])
	assert.Equal(t, 1.0, snap[`certchat_verifications_total{kind="document",result="accepted"}`])
	assert.Equal(t, 1.0, snap[`certchat_verifications_total{kind="document",result="rejected"}`])
}

func TestAsymmetric_ResetAndEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice, err := f.ids.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	sig, err := f.docs.SignAsymmetric(ctx, report(), alice)
	require.NoError(t, err)
	scheme := domain.Asymmetric{Signature: sig}

	require.NoError(t, f.session.Reset())
	v := f.docs.Verify(ctx, report(), scheme, nil)
	assert.ErrorIs(t, v.Reason, domain.ErrNoAuthority)

	// A new CA exists after the next issuance, but it did not sign alice.
	_, err = f.ids.CreateIdentity(ctx, "bob")
	require.NoError(t, err)
	v = f.docs.Verify(ctx, report(), scheme, nil)
	assert.ErrorIs(t, v.Reason, domain.ErrCertificateUntrusted)

	f.session.End()
	v = f.docs.Verify(ctx, report(), scheme, nil)
	assert.ErrorIs(t, v.Reason, domain.ErrSessionEnded)
	_, err = f.docs.SignAsymmetric(ctx, report(), alice)
	assert.ErrorIs(t, err, domain.ErrSessionEnded)
}

func TestSymmetric(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.docs.SignSymmetric(ctx, report())
	assert.ErrorIs(t, err, domain.ErrNoSigningKey)

	exported, err := f.symmetric.GenerateSessionKey()
	require.NoError(t, err)
	key, err := hmacsign.ParseKey(exported)
	require.NoError(t, err)

	sig, keyID, err := f.docs.SignSymmetric(ctx, report())
	require.NoError(t, err)
	assert.Equal(t, hmacsign.KeyID(key), keyID)

	ring := document.NewRing()
	ring.Add(key)

	t.Run("ring by id", func(t *testing.T) {
		v := f.docs.Verify(ctx, report(), domain.Symmetric{KeyID: keyID, Signature: sig}, ring)
		assert.True(t, v.Valid, "%v", v.Reason)
	})

	t.Run("unknown id", func(t *testing.T) {
		v := f.docs.Verify(ctx, report(), domain.Symmetric{KeyID: "nope", Signature: sig}, ring)
		assert.ErrorIs(t, v.Reason, domain.ErrUnknownKey)
		v = f.docs.Verify(ctx, report(), domain.Symmetric{KeyID: keyID, Signature: sig}, nil)
		assert.ErrorIs(t, v.Reason, domain.ErrUnknownKey)
	})

	t.Run("pasted key from file", func(t *testing.T) {
		data, err := document.MarshalScheme(domain.Symmetric{KeyID: keyID, Signature: sig})
		require.NoError(t, err)
		assert.NotContains(t, string(data), exported)

		scheme, err := document.ParseScheme(data)
		require.NoError(t, err)
		v := f.docs.Verify(ctx, report(), scheme, document.StaticKey(key))
		assert.True(t, v.Valid, "%v", v.Reason)

		wrong := bytes.Clone(key)
		wrong[0] ^= 1
		v = f.docs.Verify(ctx, report(), scheme, document.StaticKey(wrong))
		assert.ErrorIs(t, v.Reason, domain.ErrSignatureMismatch)
	})

	t.Run("wrong key for id", func(t *testing.T) {
		wrong := bytes.Repeat([]byte{1}, hmacsign.KeySize)
		v := f.docs.Verify(ctx, report(), domain.Symmetric{KeyID: keyID, Signature: sig}, document.StaticKey(wrong))
		assert.ErrorIs(t, v.Reason, domain.ErrWrongKey)
	})

	t.Run("survives session reset", func(t *testing.T) {
		require.NoError(t, f.session.Reset())
		v := f.docs.Verify(ctx, report(), domain.Symmetric{KeyID: keyID, Signature: sig}, ring)
		assert.True(t, v.Valid, "HMAC verification depends on the key, not the session")
	})
}

func TestParseScheme_Rejects(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("nope"),
		[]byte(`{"version":1,"algorithm":"RSA-PSS"}`),
		[]byte(`{"version":1,"algorithm":"ECDSA-SHA256"}`),
		[]byte(`{"version":2,"algorithm":"HMAC-SHA256","filename":"a","signature":"x","timestamp":1}`),
	} {
		_, err := document.ParseScheme(data)
		assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile, string(data))
	}

	_, err := document.MarshalScheme(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile)
}
