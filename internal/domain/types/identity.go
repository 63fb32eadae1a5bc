package types

// Identity is a chat participant for the lifetime of one session.
type Identity struct {
	DisplayName Username       `json:"displayName"`
	Certificate Certificate    `json:"certificate"`
	Keys        SigningKeyPair `json:"-"`
}

// Wipe drops the identity's private key material.
func (id *Identity) Wipe() {
	if id == nil {
		return
	}
	id.Keys.Wipe()
}
