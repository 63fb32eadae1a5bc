package hmacsign_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
)

func tenByteFile() *domain.MemoryFile {
	return domain.NewMemoryFile("notes.txt", "text/plain", []byte("0123456789"))
}

func TestRoundTrip(t *testing.T) {
	s := hmacsign.New(hmacsign.WithClock(func() time.Time { return time.UnixMilli(42_000) }))
	exported, err := s.GenerateSessionKey()
	require.NoError(t, err)
	key, err := hmacsign.ParseKey(exported)
	require.NoError(t, err)
	assert.Len(t, key, hmacsign.KeySize)

	file := tenByteFile()
	sig, err := s.SignFile(file, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42_000), sig.Timestamp)
	assert.Equal(t, "notes.txt", sig.Filename)
	assert.Equal(t, int64(10), sig.Size)

	assert.True(t, hmacsign.VerifyFile(file, sig.Signature, key, sig.Timestamp))

	explicit, err := hmacsign.New().SignFile(file, key)
	require.NoError(t, err)
	assert.True(t, hmacsign.VerifyFile(file, explicit.Signature, key, explicit.Timestamp))
}

func TestTamperSensitivity(t *testing.T) {
	s := hmacsign.New()
	exported, err := s.GenerateSessionKey()
	require.NoError(t, err)
	key, err := hmacsign.ParseKey(exported)
	require.NoError(t, err)

	file := tenByteFile()
	sig, err := s.SignFile(file, nil)
	require.NoError(t, err)

	for i := range file.Data {
		data := bytes.Clone(file.Data)
		data[i] ^= 0x80
		tampered := domain.NewMemoryFile(file.FileName, file.MIMEType, data)
		assert.False(t, hmacsign.VerifyFile(tampered, sig.Signature, key, sig.Timestamp), "byte %d", i)
	}

	renamed := domain.NewMemoryFile("notes2.txt", file.MIMEType, file.Data)
	assert.False(t, hmacsign.VerifyFile(renamed, sig.Signature, key, sig.Timestamp))

	retyped := domain.NewMemoryFile(file.FileName, "text/markdown", file.Data)
	assert.False(t, hmacsign.VerifyFile(retyped, sig.Signature, key, sig.Timestamp))

	resized := sizedFile{MemoryFile: file, size: 11}
	assert.False(t, hmacsign.VerifyFile(resized, sig.Signature, key, sig.Timestamp))

	assert.False(t, hmacsign.VerifyFile(file, sig.Signature, key, sig.Timestamp+1))
	assert.False(t, hmacsign.VerifyFile(file, "***", key, sig.Timestamp))
}

func TestNonUTF8Metadata(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, hmacsign.KeySize)
	s := hmacsign.New()
	data := []byte("0123456789")

	_, err := s.SignFile(domain.NewMemoryFile("report\xff.txt", "text/plain", data), key)
	assert.ErrorIs(t, err, hmacsign.ErrNotUTF8)
	_, err = s.SignFile(domain.NewMemoryFile("report.txt", "text/\xffplain", data), key)
	assert.ErrorIs(t, err, hmacsign.ErrNotUTF8)

	// A rename to either raw-byte look-alike of U+FFFD must not verify.
	sig, err := s.SignFile(domain.NewMemoryFile("report\uFFFD.txt", "text/plain", data), key)
	require.NoError(t, err)
	for _, name := range []string{"report\xff.txt", "report\xfe.txt"} {
		renamed := domain.NewMemoryFile(name, "text/plain", data)
		err := hmacsign.CheckFile(renamed, sig.Signature, key, sig.Timestamp)
		assert.ErrorIs(t, err, domain.ErrSignatureMismatch, "%q", name)
	}
}

type sizedFile struct {
	*domain.MemoryFile
	size int64
}

func (f sizedFile) Size() int64 { return f.size }

func TestOneByteKeyDifference(t *testing.T) {
	key := bytes.Repeat([]byte{0x5a}, hmacsign.KeySize)
	file := tenByteFile()

	sig, err := hmacsign.New().SignFile(file, key)
	require.NoError(t, err)

	other := bytes.Clone(key)
	other[len(other)-1] ^= 0x01
	assert.False(t, hmacsign.VerifyFile(file, sig.Signature, other, sig.Timestamp))
	assert.ErrorIs(t, hmacsign.CheckFile(file, sig.Signature, other, sig.Timestamp), domain.ErrSignatureMismatch)
	assert.True(t, hmacsign.VerifyFile(file, sig.Signature, key, sig.Timestamp))
}

func TestKeyIndependence(t *testing.T) {
	s := hmacsign.New()
	k1s, err := s.GenerateSessionKey()
	require.NoError(t, err)
	id1, ok := s.CurrentKeyID()
	require.True(t, ok)

	sig, err := s.SignFile(tenByteFile(), nil)
	require.NoError(t, err)

	k2s, err := s.GenerateSessionKey()
	require.NoError(t, err)
	id2, _ := s.CurrentKeyID()

	assert.NotEqual(t, k1s, k2s)
	assert.NotEqual(t, id1, id2)

	k1, _ := hmacsign.ParseKey(k1s)
	k2, _ := hmacsign.ParseKey(k2s)
	assert.Equal(t, id1, hmacsign.KeyID(k1))
	assert.True(t, hmacsign.VerifyFile(tenByteFile(), sig.Signature, k1, sig.Timestamp))
	assert.False(t, hmacsign.VerifyFile(tenByteFile(), sig.Signature, k2, sig.Timestamp))
}

func TestReset_NoSigningKey(t *testing.T) {
	s := hmacsign.New()
	_, err := s.SignFile(tenByteFile(), nil)
	assert.ErrorIs(t, err, domain.ErrNoSigningKey)

	_, err = s.GenerateSessionKey()
	require.NoError(t, err)
	_, err = s.SignFile(tenByteFile(), nil)
	require.NoError(t, err)

	s.Reset()
	_, ok := s.CurrentKeyID()
	assert.False(t, ok)
	_, err = s.SignFile(tenByteFile(), nil)
	assert.ErrorIs(t, err, domain.ErrNoSigningKey)

	assert.ErrorIs(t, hmacsign.CheckFile(tenByteFile(), "AAAA", nil, 1), domain.ErrNoSigningKey)
}

func TestParseKey(t *testing.T) {
	_, err := hmacsign.ParseKey("")
	assert.ErrorIs(t, err, hmacsign.ErrInvalidKey)
	_, err = hmacsign.ParseKey("!!!")
	assert.ErrorIs(t, err, hmacsign.ErrInvalidKey)
}

func TestSignatureFile(t *testing.T) {
	s := hmacsign.New()
	_, err := s.GenerateSessionKey()
	require.NoError(t, err)
	sig, err := s.SignFile(tenByteFile(), nil)
	require.NoError(t, err)

	data, err := hmacsign.MarshalSignatureFile(sig)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "key\"")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "HMAC-SHA256", raw["algorithm"])
	assert.Equal(t, hmacsign.SignatureNote, raw["note"])

	parsed, err := hmacsign.ParseSignatureFile(data)
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	raw["algorithm"] = "ECDSA-SHA256"
	bad, _ := json.Marshal(raw)
	_, err = hmacsign.ParseSignatureFile(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile)

	raw["algorithm"] = "HMAC-SHA256"
	raw["version"] = 9
	bad, _ = json.Marshal(raw)
	_, err = hmacsign.ParseSignatureFile(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile)

	delete(raw, "filename")
	raw["version"] = 1
	bad, _ = json.Marshal(raw)
	_, err = hmacsign.ParseSignatureFile(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidSignatureFile)
}
