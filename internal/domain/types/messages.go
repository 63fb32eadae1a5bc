package types

// SignedMessage is what a participant hands to the transport. Exactly one of
// Content or Encrypted is set; Index is the sender's forward-secrecy counter
// and is meaningful only when Encrypted is set.
type SignedMessage struct {
	ID          string             `json:"id"`
	Room        RoomID             `json:"room"`
	From        Username           `json:"from"`
	Content     string             `json:"content,omitempty"`
	Encrypted   *EncryptedEnvelope `json:"encrypted,omitempty"`
	Index       uint64             `json:"index,omitempty"`
	Signature   string             `json:"signature"`
	Certificate Certificate        `json:"certificate"`
	SentAt      int64              `json:"sentAt"`
}

// ReceivedMessage is a verified (or rejected) inbound message.
type ReceivedMessage struct {
	Message   SignedMessage
	Plaintext string
	Verdict   Verdict
}
