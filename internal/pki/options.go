package pki

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"certchat/internal/metrics"
)

const (
	// DefaultName is the CA name when none is configured.
	DefaultName = "certchat session CA"
	// DefaultValidityDays is used when IssueCertificate gets validityDays <= 0.
	DefaultValidityDays = 1
	// MaxValidityDays bounds any single certificate.
	MaxValidityDays = 365
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l.With().Str("component", "pki").Logger() }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Manager) { m.metrics = r }
}

// WithName sets the CA name.
func WithName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithValidity sets the default validity in days.
func WithValidity(days int) Option {
	return func(m *Manager) {
		if days > 0 && days <= MaxValidityDays {
			m.validityDays = days
		}
	}
}

// WithIssueLimit throttles issuance to r per second with the given burst.
// A zero limit disables throttling.
func WithIssueLimit(r rate.Limit, burst int) Option {
	return func(m *Manager) {
		if r <= 0 {
			m.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(r, burst)
	}
}
