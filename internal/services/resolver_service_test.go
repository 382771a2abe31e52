package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sushilbang/stream-where/internal/domain"
)

// ----- Fake gateway -----

type fakeSearchGateway struct {
	// capture args
	queries []string

	results map[string][]domain.MovieSummary
	err     error
}

func (g *fakeSearchGateway) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	g.queries = append(g.queries, query)
	if g.err != nil {
		return nil, g.err
	}
	return g.results[query], nil
}

// ----- Tests -----

func TestSearch_ForwardsToGateway(t *testing.T) {
	gw := &fakeSearchGateway{results: map[string][]domain.MovieSummary{
		"dune": {{ID: "1", Title: "Dune"}, {ID: "2", Title: "Dune: Part Two"}},
	}}
	s := NewResolverService(gw)

	out, err := s.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d; want 2", len(out))
	}
	if len(gw.queries) != 1 || gw.queries[0] != "dune" {
		t.Fatalf("gateway got queries %v", gw.queries)
	}
}

func TestResolve_ReturnsFirstResult(t *testing.T) {
	gw := &fakeSearchGateway{results: map[string][]domain.MovieSummary{
		"dune": {{ID: "1", Title: "Dune", Year: "2021"}, {ID: "2", Title: "Dune: Part Two"}},
	}}
	s := NewResolverService(gw)

	got, err := s.Resolve(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got == nil || got.ID != "1" || got.Title != "Dune" {
		t.Fatalf("Resolve = %+v; want first result", got)
	}
}

func TestResolve_NoMatchesIsAbsentNotError(t *testing.T) {
	gw := &fakeSearchGateway{}
	s := NewResolverService(gw)

	got, err := s.Resolve(context.Background(), "zzzznotreal")
	if err != nil {
		t.Fatalf("empty search must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil summary, got %+v", got)
	}
}

func TestResolve_PropagatesGatewayFailure(t *testing.T) {
	sentinel := errors.New("boom")
	gw := &fakeSearchGateway{err: sentinel}
	s := NewResolverService(gw)

	_, err := s.Resolve(context.Background(), "dune")
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected gateway failure to propagate, got %v", err)
	}
}
