// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: the structured error envelope, the fail()/ok() helpers, and
// the translation of upstream failure kinds into HTTP statuses. The goal
// is a uniform, machine-friendly surface for both success and failure.
//
// Example error response:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "too_many_requests",
//	  "message": "search provider rate limit reached"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sushilbang/stream-where/internal/http/middleware"
	"github.com/sushilbang/stream-where/internal/upstream"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation ID echoed from X-Request-ID, used to match
//     server logs with client-side errors.
//   - Code: stable machine-readable string (see errors.go constants).
//   - Message: human-readable description. Never contains upstream
//     credentials or raw upstream payloads.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"too_many_requests"`
	Message   string `json:"message" example:"search provider rate limit reached"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), used by router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// failUpstream translates an upstream failure into its response. The
// mapping is the single source of truth for the provider error taxonomy;
// non-upstream errors fall back to a generic 500.
func failUpstream(c *gin.Context, err error) {
	kind, isUpstream := upstream.KindOf(err)
	if !isUpstream {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
		return
	}
	switch kind {
	case upstream.KindRateLimited:
		c.Header("Retry-After", "1")
		fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "provider rate limit reached, retry shortly")
	case upstream.KindQuotaExceeded:
		fail(c, http.StatusPaymentRequired, ErrCodeQuotaExceeded, "provider quota exhausted for the current period")
	case upstream.KindAuthInvalid:
		fail(c, http.StatusUnauthorized, ErrCodeAuthInvalid, "provider rejected the configured API key")
	case upstream.KindAccessDenied:
		fail(c, http.StatusForbidden, ErrCodeAccessDenied, "provider denied access for the configured plan")
	default:
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "upstream provider unavailable")
	}
}
