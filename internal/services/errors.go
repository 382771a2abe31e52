// Package services defines the business logic for movie resolution,
// bundle coverage analysis, and status reporting. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors cover client-input problems only; upstream failures keep
// their upstream.Error kind and are translated into HTTP status codes at
// the handler layer.
package services

import "errors"

var (
	// ErrNoMovies is returned when a bundle request contains no movie
	// names at all.
	ErrNoMovies = errors.New("at least one movie name is required")

	// ErrTooManyMovies is returned when a bundle request exceeds the
	// per-request movie limit.
	ErrTooManyMovies = errors.New("too many movie names in one request")
)
