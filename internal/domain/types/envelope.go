package types

// EncryptedEnvelope is an AEAD ciphertext. Salt is set exactly when the key
// was derived per message with HKDF.
type EncryptedEnvelope struct {
	Data []byte `json:"data"`
	IV   []byte `json:"iv"`
	Salt []byte `json:"salt,omitempty"`
}

// HasSalt reports whether forward-secrecy derivation was used.
func (e EncryptedEnvelope) HasSalt() bool { return len(e.Salt) > 0 }
