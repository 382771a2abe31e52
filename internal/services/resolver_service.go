// Package services – ResolverService
//
// This file implements the movie resolver: the thin layer that turns a
// free-text movie name into its canonical upstream identity. The direct
// search endpoint needs the full top-5 candidate list while the bundle
// analyzer needs only the best match, so both shapes are exposed.
//
// Caching is the gateway's concern; the resolver stays stateless.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sushilbang/stream-where/internal/domain"
)

// SearchGateway defines the metadata-search contract required by the
// resolver. Implementations must be safe for concurrent use and honor
// the provided context.
type SearchGateway interface {
	// Search returns up to five normalized summaries for query. An empty
	// slice means no matches, which is success, not failure.
	Search(ctx context.Context, query string) ([]domain.MovieSummary, error)
}

// ResolverService resolves free-text movie names via the search gateway.
type ResolverService struct {
	// Gateway is the metadata search gateway.
	Gateway SearchGateway
}

// NewResolverService constructs a ResolverService over the given gateway.
func NewResolverService(gw SearchGateway) *ResolverService {
	return &ResolverService{Gateway: gw}
}

// Search returns the full candidate list for query (at most five
// entries). Gateway failures propagate unchanged.
func (s *ResolverService) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	tr := otel.Tracer("services/ResolverService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("movie.query", query)),
	)
	defer span.End()

	return s.Gateway.Search(ctx, query)
}

// Resolve returns the best match for query, or nil when the search
// produced no candidates. Gateway failures propagate unchanged.
func (s *ResolverService) Resolve(ctx context.Context, query string) (*domain.MovieSummary, error) {
	tr := otel.Tracer("services/ResolverService")
	ctx, span := tr.Start(ctx, "Resolve",
		trace.WithAttributes(attribute.String("movie.query", query)),
	)
	defer span.End()

	results, err := s.Gateway.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	best := results[0]
	return &best, nil
}
