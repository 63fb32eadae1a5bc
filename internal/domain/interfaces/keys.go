package interfaces

import domaintypes "certchat/internal/domain/types"

// KeyRing resolves symmetric key ids to raw keys shared out-of-band.
type KeyRing interface {
	LookupKey(id domaintypes.KeyID) ([]byte, bool)
}
