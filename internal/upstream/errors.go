package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies upstream call failures. The orchestrator maps each kind to a
// distinct response classification, so handlers never have to string-match.
type Kind int

const (
	// KindUnavailable means every candidate address failed at the transport
	// level (connection refused, DNS, timeout). Eligible for the one
	// fallback-address retry, nothing beyond that.
	KindUnavailable Kind = iota

	// KindErrorStatus means the service was reachable but returned a
	// non-success HTTP status. Retrying a deterministic bad response is
	// wasted work, so these are surfaced immediately.
	KindErrorStatus

	// KindMalformed means the service returned a success status but the body
	// did not decode into the expected shape.
	KindMalformed
)

// String returns the stable classification label for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "upstream_unavailable"
	case KindErrorStatus:
		return "upstream_error"
	case KindMalformed:
		return "malformed_upstream_response"
	default:
		return "unknown"
	}
}

// Error is a classified upstream call failure.
type Error struct {
	Kind    Kind
	Service string // e.g. "mcsi", "yield", "rag"
	Status  int    // HTTP status for KindErrorStatus, 0 otherwise
	Err     error  // underlying cause, last transport error for KindUnavailable
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindErrorStatus:
		return fmt.Sprintf("%s service returned status %d", e.Service, e.Status)
	case KindMalformed:
		return fmt.Sprintf("%s service returned malformed response: %v", e.Service, e.Err)
	default:
		return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify extracts the upstream error from err, if there is one.
func Classify(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsUnavailable reports whether err is an upstream transport failure.
func IsUnavailable(err error) bool {
	ue, ok := Classify(err)
	return ok && ue.Kind == KindUnavailable
}
