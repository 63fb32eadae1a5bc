package interfaces

import (
	"context"

	domaintypes "certchat/internal/domain/types"
)

// IdentityService creates session identities backed by certificates.
type IdentityService interface {
	CreateIdentity(ctx context.Context, displayName domaintypes.Username) (domaintypes.Identity, error)
	FingerprintIdentity(identity domaintypes.Identity) domaintypes.Fingerprint
}

// DocumentService signs and verifies detached document signatures.
type DocumentService interface {
	SignAsymmetric(
		ctx context.Context,
		file domaintypes.File,
		identity domaintypes.Identity,
	) (domaintypes.DocumentSignature, error)
	SignSymmetric(
		ctx context.Context,
		file domaintypes.File,
	) (domaintypes.SymmetricSignature, domaintypes.KeyID, error)
	Verify(
		ctx context.Context,
		file domaintypes.File,
		scheme domaintypes.SignatureScheme,
		keys KeyRing,
	) domaintypes.Verdict
}

// MessageService signs, sends, fetches and verifies chat messages.
type MessageService interface {
	SendMessage(
		ctx context.Context,
		from domaintypes.Identity,
		room domaintypes.RoomID,
		text string,
		sharedSecret []byte,
	) (domaintypes.SignedMessage, error)
	ReceiveMessages(
		ctx context.Context,
		me domaintypes.Username,
		room domaintypes.RoomID,
		sharedSecret []byte,
		limit int,
	) ([]domaintypes.ReceivedMessage, error)
}
