package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"certchat/internal/domain"
)

// randReader is the random source for keys, salts and IVs.
// Tests may replace it to simulate a broken provider.
var randReader io.Reader = rand.Reader

// Random returns n bytes from the random source.
func Random(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCryptoUnavailable, err)
	}
	return b, nil
}
