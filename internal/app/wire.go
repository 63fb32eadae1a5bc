package app

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"certchat/internal/domain"
	"certchat/internal/hmacsign"
	"certchat/internal/metrics"
	"certchat/internal/pki"
	"certchat/internal/protocol/ratchet"
	"certchat/internal/relay"
	documentsvc "certchat/internal/services/document"
	identitysvc "certchat/internal/services/identity"
	messagesvc "certchat/internal/services/message"
	"certchat/internal/services/session"
	"certchat/internal/store"
)

// Wire bundles the session, services, relay and store for the CLI.
type Wire struct {
	Config       Config
	Log          zerolog.Logger
	Metrics      *metrics.Recorder
	Session      *session.Session
	Certificates *pki.Manager
	Symmetric    *hmacsign.Signer
	Identities   domain.IdentityService
	Documents    *documentsvc.Service
	Messages     domain.MessageService
	Relay        *relay.Memory
	Store        *store.FileStore
}

// NewWire constructs the dependency graph from cfg. now may be nil.
func NewWire(cfg Config, log zerolog.Logger, now func() time.Time) *Wire {
	if now == nil {
		now = time.Now
	}
	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	certs := pki.NewManager(
		pki.WithClock(now),
		pki.WithLogger(log),
		pki.WithMetrics(rec),
		pki.WithName(cfg.PKI.CAName),
		pki.WithValidity(cfg.PKI.ValidityDays),
		pki.WithIssueLimit(rate.Limit(cfg.PKI.IssueRate), cfg.PKI.IssueBurst),
	)
	symmetric := hmacsign.New(
		hmacsign.WithClock(now),
		hmacsign.WithLogger(log),
		hmacsign.WithMetrics(rec),
	)
	sess := session.New(certs, symmetric, ratchet.New(), log)
	rel := relay.NewMemory(log)
	var msgOpts []messagesvc.Option
	if !cfg.Messages.ForwardSecrecy {
		msgOpts = append(msgOpts, messagesvc.WithStaticEncryption())
	}

	return &Wire{
		Config:       cfg,
		Log:          log,
		Metrics:      rec,
		Session:      sess,
		Certificates: certs,
		Symmetric:    symmetric,
		Identities:   identitysvc.New(sess, cfg.PKI.ValidityDays, log),
		Documents:    documentsvc.New(sess, now, log, rec),
		Messages:     messagesvc.New(sess, rel, now, log, rec, msgOpts...),
		Relay:        rel,
		Store:        store.NewFileStore(cfg.Home),
	}
}

// Close ends the session, wiping its keys.
func (w *Wire) Close() { w.Session.End() }
