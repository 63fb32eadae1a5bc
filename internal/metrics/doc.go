// Package metrics records counters for certificate issuance, signing and
// verification on a private Prometheus registry.
//
// A nil *Recorder is valid and records nothing, so components can take one as
// an optional dependency.
package metrics
