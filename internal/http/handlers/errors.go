// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable taxonomy alongside human-readable
// messages, and they mirror the upstream failure kinds one-to-one so a
// client can distinguish "back off briefly" (rate_limited) from "the daily
// budget is gone" (quota_exceeded).
//
// Status mapping used by the handlers:
//
//	bad_request      → 400    (client input problems)
//	auth_invalid     → 401    (provider rejected our API key)
//	quota_exceeded   → 402    (provider plan budget exhausted)
//	access_denied    → 403    (key valid but not permitted)
//	not_found        → 404    (unknown route)
//	too_many_requests→ 429    (provider or edge rate limit)
//	upstream_error   → 502    (transient provider fault)
//	internal_error   → 500    (everything else)
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Upstream failure classes:
	ErrCodeAuthInvalid   = "auth_invalid"
	ErrCodeQuotaExceeded = "quota_exceeded"
	ErrCodeAccessDenied  = "access_denied"
	ErrCodeUpstream      = "upstream_error"
)
