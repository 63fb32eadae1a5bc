package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchat/internal/domain"
	"certchat/internal/services/document"
)

func TestCheckDetached(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice, err := f.ids.CreateIdentity(ctx, "alice")
	require.NoError(t, err)
	sig, err := f.docs.SignAsymmetric(ctx, report(), alice)
	require.NoError(t, err)

	// The issuing session is gone; integrity still checks out.
	f.session.End()
	assert.NoError(t, document.CheckDetached(report(), sig, time.Now()))

	tampered := report()
	tampered.Data = append(tampered.Data, '!')
	assert.ErrorIs(t, document.CheckDetached(tampered, sig, time.Now()), domain.ErrDocumentTampered)

	later := alice.Certificate.ExpiryTime().Add(time.Millisecond)
	assert.ErrorIs(t, document.CheckDetached(report(), sig, later), domain.ErrCertificateExpired)

	swapped := sig
	swapped.Certificate.PublicKey = []byte{0x04}
	assert.ErrorIs(t, document.CheckDetached(report(), swapped, time.Now()), domain.ErrMalformedCertificate)
}
