package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"certchat/internal/domain"
)

var (
	// ErrUnknownRoom is returned for rooms nobody has joined.
	ErrUnknownRoom = errors.New("unknown room")
	// ErrNotMember is returned when a member has not joined the room.
	ErrNotMember = errors.New("not a member of room")
)

type room struct {
	pending map[domain.Username][]domain.SignedMessage
}

// Memory is a process-local relay.
type Memory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	log   zerolog.Logger
}

// NewMemory returns an empty relay.
func NewMemory(log zerolog.Logger) *Memory {
	return &Memory{
		rooms: make(map[domain.RoomID]*room),
		log:   log.With().Str("component", "relay").Logger(),
	}
}

var _ domain.Transport = (*Memory)(nil)

// Join adds member to the room, creating it if needed. Joining twice is a
// no-op.
func (m *Memory) Join(ctx context.Context, id domain.RoomID, member domain.Username) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = &room{pending: make(map[domain.Username][]domain.SignedMessage)}
		m.rooms[id] = r
	}
	if _, ok := r.pending[member]; !ok {
		r.pending[member] = nil
		m.log.Debug().Str("room", id.String()).Str("member", member.String()).Msg("joined")
	}
	return nil
}

// Publish queues message for every member of message.Room except its sender.
func (m *Memory) Publish(ctx context.Context, message domain.SignedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.memberRoomLocked(message.Room, message.From)
	if err != nil {
		return err
	}
	delivered := 0
	for member, queue := range r.pending {
		if member == message.From {
			continue
		}
		r.pending[member] = append(queue, message)
		delivered++
	}
	m.log.Debug().
		Str("room", message.Room.String()).
		Str("from", message.From.String()).
		Str("id", message.ID).
		Int("recipients", delivered).
		Msg("published")
	return nil
}

// Fetch returns up to limit pending messages for member, oldest first.
// limit <= 0 returns all of them.
func (m *Memory) Fetch(
	ctx context.Context,
	id domain.RoomID,
	member domain.Username,
	limit int,
) ([]domain.SignedMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, err := m.memberRoomLocked(id, member)
	if err != nil {
		return nil, err
	}
	queue := r.pending[member]
	if limit > 0 && limit < len(queue) {
		queue = queue[:limit]
	}
	return append([]domain.SignedMessage(nil), queue...), nil
}

// Ack removes the first count pending messages for member.
func (m *Memory) Ack(ctx context.Context, id domain.RoomID, member domain.Username, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if count <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.memberRoomLocked(id, member)
	if err != nil {
		return err
	}
	queue := r.pending[member]
	if count > len(queue) {
		count = len(queue)
	}
	r.pending[member] = append([]domain.SignedMessage(nil), queue[count:]...)
	return nil
}

// Members returns the members of a room.
func (m *Memory) Members(id domain.RoomID) []domain.Username {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil
	}
	out := make([]domain.Username, 0, len(r.pending))
	for member := range r.pending {
		out = append(out, member)
	}
	return out
}

func (m *Memory) memberRoomLocked(id domain.RoomID, member domain.Username) (*room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, id)
	}
	if _, ok := r.pending[member]; !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotMember, member, id)
	}
	return r, nil
}
