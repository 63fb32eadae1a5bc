package types

// Username is a chat participant's display name as typed by the user.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// KeyID identifies a symmetric session key without revealing it.
type KeyID string

// String returns the string form of the key identifier.
func (id KeyID) String() string { return string(id) }

// RoomID identifies a chat room on the relay.
type RoomID string

// String returns the string form of the room identifier.
func (id RoomID) String() string { return string(id) }
