package signer_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/crypto"
	"certchat/internal/domain"
	"certchat/internal/pki"
	"certchat/internal/signer"
)

type party struct {
	keys domain.SigningKeyPair
	cert domain.Certificate
}

func issue(t *testing.T, m *pki.Manager, subject string) party {
	t.Helper()
	kp, err := m.GenerateSigningKeyPair()
	require.NoError(t, err)
	raw, err := crypto.ExportPublicKey(kp.Public)
	require.NoError(t, err)
	cert, err := m.IssueCertificate(context.Background(), subject, raw, 1)
	require.NoError(t, err)
	return party{keys: kp, cert: cert}
}

func TestAliceScenario(t *testing.T) {
	m := pki.NewManager()
	alice := issue(t, m, "alice")
	bob := issue(t, m, "bob")

	sig, err := signer.SignData("hello", alice.keys.Private)
	require.NoError(t, err)

	require.True(t, m.VerifyCertificate(alice.cert))
	assert.True(t, signer.VerifySignature("hello", sig, alice.cert.PublicKey))
	assert.False(t, signer.VerifySignature("hello", sig, bob.cert.PublicKey))
	assert.ErrorIs(t, signer.CheckSignature("hello", sig, bob.cert.PublicKey), domain.ErrSignatureMismatch)
}

func TestVerifySignature_NeverFails(t *testing.T) {
	m := pki.NewManager()
	alice := issue(t, m, "alice")
	sig, err := signer.SignData("hello", alice.keys.Private)
	require.NoError(t, err)

	assert.False(t, signer.VerifySignature("hello", "%%%not-base64", alice.cert.PublicKey))
	assert.False(t, signer.VerifySignature("hello", sig, []byte("bad key")))
	assert.False(t, signer.VerifySignature("hello", "", nil))
	assert.False(t, signer.VerifySignature("Hello", sig, alice.cert.PublicKey))
}

func TestDocumentSignature(t *testing.T) {
	m := pki.NewManager()
	alice := issue(t, m, "alice")
	file := domain.NewMemoryFile("report.txt", "text/plain", []byte("quarterly numbers"))

	sig, err := signer.SignDocument(file, alice.keys.Private, alice.cert, time.UnixMilli(1234))
	require.NoError(t, err)
	assert.Equal(t, int64(1234), sig.Timestamp)
	assert.Equal(t, alice.cert, sig.Certificate)

	hash, err := signer.HashDocument(file)
	require.NoError(t, err)
	assert.Equal(t, hash, sig.DocumentHash)

	assert.True(t, signer.VerifyDocumentSignature(file, sig, alice.cert.PublicKey))

	t.Run("every byte matters", func(t *testing.T) {
		for i := range file.Data {
			tampered := domain.NewMemoryFile(file.FileName, file.MIMEType, append([]byte(nil), file.Data...))
			tampered.Data[i] ^= 0x01
			err := signer.CheckDocumentSignature(tampered, sig, alice.cert.PublicKey)
			assert.ErrorIs(t, err, domain.ErrDocumentTampered, "byte %d", i)
		}
	})

	t.Run("forged hash", func(t *testing.T) {
		other := domain.NewMemoryFile("x", "text/plain", []byte("other"))
		otherHash, err := signer.HashDocument(other)
		require.NoError(t, err)
		forged := sig
		forged.DocumentHash = otherHash
		assert.ErrorIs(t, signer.CheckDocumentSignature(other, forged, alice.cert.PublicKey),
			domain.ErrSignatureMismatch)
	})

	t.Run("wrong key", func(t *testing.T) {
		bob := issue(t, m, "bob")
		assert.ErrorIs(t, signer.CheckDocumentSignature(file, sig, bob.cert.PublicKey),
			domain.ErrSignatureMismatch)
	})
}

func TestSignatureFile_RoundTrip(t *testing.T) {
	m := pki.NewManager()
	alice := issue(t, m, "alice")
	file := domain.NewMemoryFile("a.bin", "application/octet-stream", []byte{1, 2, 3})
	sig, err := signer.SignDocument(file, alice.keys.Private, alice.cert, time.Now())
	require.NoError(t, err)

	data, err := signer.MarshalSignatureFile(sig)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 1, raw["version"])
	assert.Equal(t, "ECDSA-SHA256", raw["algorithm"])

	parsed, err := signer.ParseSignatureFile(data)
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
	assert.True(t, signer.VerifyDocumentSignature(file, parsed, parsed.Certificate.PublicKey))
}

func TestParseSignatureFile_Rejects(t *testing.T) {
	m := pki.NewManager()
	alice := issue(t, m, "alice")
	sig, err := signer.SignDocument(domain.NewMemoryFile("a", "", []byte("a")), alice.keys.Private, alice.cert, time.Now())
	require.NoError(t, err)

	mutate := func(f func(*signer.SignatureFile)) []byte {
		sf := signer.SignatureFile{
			Version:      signer.SignatureFileVersion,
			Algorithm:    domain.AlgorithmECDSA,
			DocumentHash: sig.DocumentHash,
			Signature:    sig.Signature,
			Certificate:  sig.Certificate,
			Timestamp:    sig.Timestamp,
		}
		f(&sf)
		b, err := json.Marshal(sf)
		require.NoError(t, err)
		return b
	}

	cases := map[string][]byte{
		"not json":        []byte("{"),
		"future version":  mutate(func(f *signer.SignatureFile) { f.Version = 2 }),
		"other algorithm": mutate(func(f *signer.SignatureFile) { f.Algorithm = "ECDSA-SHA512" }),
		"hmac algorithm":  mutate(func(f *signer.SignatureFile) { f.Algorithm = domain.AlgorithmHMAC }),
		"no hash":         mutate(func(f *signer.SignatureFile) { f.DocumentHash = "" }),
		"no signature":    mutate(func(f *signer.SignatureFile) { f.Signature = "" }),
		"no certificate":  mutate(func(f *signer.SignatureFile) { f.Certificate = domain.Certificate{} }),
		"no timestamp":    mutate(func(f *signer.SignatureFile) { f.Timestamp = 0 }),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := signer.ParseSignatureFile(data)
			assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile)
		})
	}
}
