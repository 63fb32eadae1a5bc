package types

// Verdict is the outcome of a verification. Reason is nil when Valid and
// otherwise one of the verification sentinels in package domain.
type Verdict struct {
	Valid  bool
	Reason error
}

// Accept returns a passing verdict.
func Accept() Verdict { return Verdict{Valid: true} }

// Reject returns a failing verdict with reason.
func Reject(reason error) Verdict { return Verdict{Reason: reason} }
