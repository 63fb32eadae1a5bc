package interfaces

import (
	"context"

	domaintypes "certchat/internal/domain/types"
)

// Transport delivers signed messages between room members unmodified.
type Transport interface {
	Join(ctx context.Context, room domaintypes.RoomID, member domaintypes.Username) error
	Publish(ctx context.Context, message domaintypes.SignedMessage) error
	Fetch(
		ctx context.Context,
		room domaintypes.RoomID,
		member domaintypes.Username,
		limit int,
	) ([]domaintypes.SignedMessage, error)
	Ack(ctx context.Context, room domaintypes.RoomID, member domaintypes.Username, count int) error
}
