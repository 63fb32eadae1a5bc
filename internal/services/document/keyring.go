package document

import (
	"sync"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
)

// StaticKey is a KeyRing holding one key pasted by the user. It answers
// every lookup, so a wrong key surfaces as ErrWrongKey or a MAC mismatch
// rather than ErrUnknownKey.
type StaticKey []byte

// LookupKey implements domain.KeyRing.
func (k StaticKey) LookupKey(domain.KeyID) ([]byte, bool) {
	return k, len(k) > 0
}

// Ring is a KeyRing indexed by key id.
type Ring struct {
	mu   sync.RWMutex
	keys map[domain.KeyID][]byte
}

// NewRing returns an empty Ring.
func NewRing() *Ring { return &Ring{keys: make(map[domain.KeyID][]byte)} }

// Add stores key under its id and returns the id.
func (r *Ring) Add(key []byte) domain.KeyID {
	id := hmacsign.KeyID(key)
	r.mu.Lock()
	r.keys[id] = append([]byte(nil), key...)
	r.mu.Unlock()
	return id
}

// LookupKey implements domain.KeyRing.
func (r *Ring) LookupKey(id domain.KeyID) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[id]
	return k, ok
}

var (
	_ domain.KeyRing = StaticKey(nil)
	_ domain.KeyRing = (*Ring)(nil)
)
