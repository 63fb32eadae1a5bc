package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/codec"
)

func TestBase64RoundTrip(t *testing.T) {
	in := []byte{0x00, 0xff, 0x10, 'h', 'i'}
	out, err := codec.FromBase64(codec.ToBase64(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeBase64_Lenient(t *testing.T) {
	want := []byte{0xfb, 0xff, 0xfe}
	for _, s := range []string{"+//+", "-__-"} {
		got, err := codec.DecodeBase64(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := codec.DecodeBase64("not base64!!")
	assert.Error(t, err)
}

func TestBytesToText(t *testing.T) {
	s, err := codec.BytesToText(codec.TextToBytes("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	_, err = codec.BytesToText([]byte{0xff, 0xfe})
	assert.ErrorIs(t, err, codec.ErrInvalidUTF8)
}

func TestEqual(t *testing.T) {
	assert.True(t, codec.Equal([]byte("abc"), []byte("abc")))
	assert.False(t, codec.Equal([]byte("abc"), []byte("abd")))
	assert.False(t, codec.Equal([]byte("abc"), []byte("ab")))
}

func TestWipe(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	codec.Wipe(a, nil, b)
	assert.Equal(t, []byte{0, 0, 0}, a)
	assert.Equal(t, []byte{0, 0}, b)
}

func TestClone(t *testing.T) {
	a := []byte{1, 2}
	c := codec.Clone(a)
	c[0] = 9
	assert.Equal(t, byte(1), a[0])
	assert.Nil(t, codec.Clone(nil))
}
