package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/pki"
	"certchat/internal/protocol/ratchet"
)

// Components are the session-owned collaborators handed to Use callbacks.
type Components struct {
	Certificates *pki.Manager
	Symmetric    *hmacsign.Signer
	Ratchet      *ratchet.Ratchet
}

// Session ties the lifetime of its components together.
//
// Operations run through Use under a read lock, so they proceed in parallel
// with each other but never overlap a Reset or End. Reset discards every
// credential the session issued; End does the same and makes every later
// Use fail with ErrSessionEnded.
type Session struct {
	mu     sync.RWMutex
	id     string
	active bool
	c      Components
	log    zerolog.Logger
}

// New starts an active session over the given components.
func New(certs *pki.Manager, symmetric *hmacsign.Signer, r *ratchet.Ratchet, log zerolog.Logger) *Session {
	s := &Session{
		id:     uuid.NewString(),
		active: true,
		c: Components{
			Certificates: certs,
			Symmetric:    symmetric,
			Ratchet:      r,
		},
	}
	s.log = log.With().Str("component", "session").Str("session_id", s.id).Logger()
	s.log.Info().Msg("session started")
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Active reports whether End has not been called.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Use runs fn with the session components under a read lock. fn must not
// call Reset or End.
func (s *Session) Use(fn func(c Components) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return domain.ErrSessionEnded
	}
	return fn(s.c)
}

// Reset discards the CA, wipes the session key and restarts the message
// counter. The session stays active.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return domain.ErrSessionEnded
	}
	s.resetLocked()
	s.log.Info().Msg("session reset")
	return nil
}

// End resets the session and marks it inactive. It is idempotent.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.resetLocked()
	s.active = false
	s.log.Info().Msg("session ended")
}

func (s *Session) resetLocked() {
	s.c.Certificates.Reset()
	s.c.Symmetric.Reset()
	s.c.Ratchet.ResetCounter()
}
