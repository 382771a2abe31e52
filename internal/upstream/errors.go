// Package upstream contains the gateways to the two third-party data
// providers (movie metadata search and streaming availability) and the
// error taxonomy shared by both.
//
// Every upstream failure is normalized into an *Error carrying an
// explicit Kind discriminant so callers can branch on failure class
// without parsing messages. Translation into HTTP status codes is
// performed at the handler layer.
package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream failure. The zero value is KindUnavailable
// so an unclassified fault degrades rather than escalates.
type Kind int

const (
	// KindUnavailable is a transient network or upstream fault,
	// including gateway-side timeouts.
	KindUnavailable Kind = iota
	// KindRateLimited means the provider rejected the call for exceeding
	// its short-term request rate; the caller should back off.
	KindRateLimited
	// KindQuotaExceeded means a longer-lived budget (e.g. a daily or
	// monthly plan quota) is exhausted. Surfaced distinctly from
	// KindRateLimited so callers can apply different backoff.
	KindQuotaExceeded
	// KindAuthInvalid means the configured API key was rejected; fatal
	// until configuration is fixed.
	KindAuthInvalid
	// KindAccessDenied means the key is valid but not permitted for the
	// requested resource or plan tier.
	KindAccessDenied
)

// String returns a stable lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindAccessDenied:
		return "access_denied"
	default:
		return "unavailable"
	}
}

// Error is the tagged failure variant returned by both gateways.
//
// Fields:
//   - Kind: failure class, always set.
//   - Op: gateway operation ("search" or "availability"), for logs.
//   - Status: upstream HTTP status when one was received, 0 otherwise.
//   - Err: underlying cause (transport error), may be nil.
//
// The message never includes credentials or raw upstream payloads.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: %s (status %d)", e.Op, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("upstream %s: %s", e.Op, e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure Kind from err. The second return is false
// when err is not an upstream failure at all.
func KindOf(err error) (Kind, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return 0, false
}

// IsSystemic reports whether err indicates exhausted upstream capacity
// (rate limit or quota). Batch operations short-circuit on systemic
// failures since every remaining call would fail the same way.
func IsSystemic(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindRateLimited || k == KindQuotaExceeded)
}
