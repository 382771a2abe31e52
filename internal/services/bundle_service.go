// Package services – BundleService
//
// This file implements the bundle analyzer: given a batch of free-text
// movie names, it resolves each one, fetches streaming availability for
// every resolved title, and ranks subscription services by how many of
// the requested movies each covers.
//
// Failure policy (deliberate asymmetry):
//   - RateLimited / QuotaExceeded from either gateway is systemic (no
//     remaining upstream capacity), so the whole batch fails.
//   - Any other per-item failure degrades just that item: a failed
//     resolution marks the name not found, a failed availability lookup
//     substitutes an empty degraded result.
//
// Per-movie work within each phase runs concurrently; resolution joins
// fully before any availability fetch starts, since availability needs
// resolved ids.
package services

import (
	"context"
	"math"
	"sort"

	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sushilbang/stream-where/internal/domain"
	"github.com/sushilbang/stream-where/internal/upstream"
)

// MaxBundleMovies caps how many names one bundle request may carry.
const MaxBundleMovies = 10

// AvailabilityGateway defines the per-title lookup contract required by
// the analyzer. Implementations must be safe for concurrent use and
// honor the provided context.
type AvailabilityGateway interface {
	// Lookup returns classified availability for a resolved title id.
	Lookup(ctx context.Context, titleID string) (domain.AvailabilityResult, error)
}

// Resolver is the subset of ResolverService the analyzer consumes.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*domain.MovieSummary, error)
}

// BundleService computes per-service coverage over a batch of movies.
type BundleService struct {
	// Resolver turns free-text names into canonical summaries.
	Resolver Resolver
	// Availability fetches streaming options per resolved title.
	Availability AvailabilityGateway
}

// NewBundleService constructs a BundleService over the given collaborators.
func NewBundleService(r Resolver, a AvailabilityGateway) *BundleService {
	return &BundleService{Resolver: r, Availability: a}
}

// resolveOutcome carries one name's resolution result across the fan-in.
type resolveOutcome struct {
	summary *domain.MovieSummary
	err     error
}

// lookupOutcome carries one title's availability result across the fan-in.
type lookupOutcome struct {
	result domain.AvailabilityResult
	err    error
}

// Analyze validates the batch, resolves every name, fetches availability
// for each resolved movie, and assembles the coverage report. Duplicate
// input names are processed independently.
func (s *BundleService) Analyze(ctx context.Context, names []string) (*domain.BundleReport, error) {
	tr := otel.Tracer("services/BundleService")
	ctx, span := tr.Start(ctx, "Analyze",
		trace.WithAttributes(attribute.Int("bundle.size", len(names))),
	)
	defer span.End()

	if len(names) == 0 {
		return nil, ErrNoMovies
	}
	if len(names) > MaxBundleMovies {
		return nil, ErrTooManyMovies
	}

	// Phase 1: resolve all names concurrently, then join.
	resolved := iter.Map(names, func(name *string) resolveOutcome {
		sum, err := s.Resolver.Resolve(ctx, *name)
		return resolveOutcome{summary: sum, err: err}
	})
	for _, r := range resolved {
		if upstream.IsSystemic(r.err) {
			return nil, r.err
		}
	}

	// Phase 2: availability for every resolved movie, concurrently.
	lookups := iter.Map(resolved, func(r *resolveOutcome) lookupOutcome {
		if r.err != nil || r.summary == nil {
			return lookupOutcome{}
		}
		res, err := s.Availability.Lookup(ctx, r.summary.ID)
		return lookupOutcome{result: res, err: err}
	})
	for _, l := range lookups {
		if upstream.IsSystemic(l.err) {
			return nil, l.err
		}
	}

	return s.assemble(names, resolved, lookups), nil
}

// assemble builds the BundleReport from the joined phase outputs,
// scanning movies strictly in input order so the ranking tie-break stays
// deterministic.
func (s *BundleService) assemble(names []string, resolved []resolveOutcome, lookups []lookupOutcome) *domain.BundleReport {
	report := &domain.BundleReport{
		TotalRequested:  len(names),
		NotFoundNames:   []string{},
		ServiceRanking:  []domain.ServiceCoverage{},
		UncoveredTitles: []string{},
		PerMovieDetail:  make([]domain.MovieDetail, 0, len(names)),
	}

	// serviceOrder preserves first-encountered order; serviceTitles holds
	// the deduplicated covered titles per service, in encounter order.
	var serviceOrder []string
	serviceTitles := map[string][]string{}
	serviceSeen := map[string]map[string]bool{}

	var foundTitles []string
	coveredTitles := map[string]bool{}

	for i, name := range names {
		detail := domain.MovieDetail{
			QueryName:                name,
			SubscriptionServiceNames: []string{},
		}
		r := resolved[i]
		if r.err != nil || r.summary == nil {
			report.NotFoundNames = appendUnique(report.NotFoundNames, name)
			report.PerMovieDetail = append(report.PerMovieDetail, detail)
			continue
		}

		report.FoundCount++
		detail.Found = true
		detail.ResolvedTitle = r.summary.Title
		detail.ResolvedYear = r.summary.Year
		foundTitles = appendUnique(foundTitles, r.summary.Title)

		avail := lookups[i].result
		if lookups[i].err != nil {
			avail = domain.EmptyAvailability()
		}
		for _, opt := range avail.SubscriptionOptions {
			key := opt.ServiceName
			if key == "" {
				key = opt.ServiceID
			}
			detail.SubscriptionServiceNames = appendUnique(detail.SubscriptionServiceNames, key)

			if serviceSeen[key] == nil {
				serviceSeen[key] = map[string]bool{}
				serviceOrder = append(serviceOrder, key)
			}
			if !serviceSeen[key][r.summary.Title] {
				serviceSeen[key][r.summary.Title] = true
				serviceTitles[key] = append(serviceTitles[key], r.summary.Title)
			}
			coveredTitles[r.summary.Title] = true
		}
		report.PerMovieDetail = append(report.PerMovieDetail, detail)
	}

	// Ranking: descending covered count; the stable sort keeps the
	// first-seen order on ties.
	for _, key := range serviceOrder {
		titles := serviceTitles[key]
		report.ServiceRanking = append(report.ServiceRanking, domain.ServiceCoverage{
			ServiceID:          key,
			CoveredMovieTitles: titles,
			CoveragePercent:    int(math.Round(100 * float64(len(titles)) / float64(report.TotalRequested))),
		})
	}
	sort.SliceStable(report.ServiceRanking, func(a, b int) bool {
		return len(report.ServiceRanking[a].CoveredMovieTitles) > len(report.ServiceRanking[b].CoveredMovieTitles)
	})
	if len(report.ServiceRanking) > 0 {
		best := report.ServiceRanking[0]
		report.BestService = &best
	}

	for _, title := range foundTitles {
		if !coveredTitles[title] {
			report.UncoveredTitles = append(report.UncoveredTitles, title)
		}
	}
	return report
}

// appendUnique appends v to s unless already present, preserving order.
func appendUnique(s []string, v string) []string {
	for _, have := range s {
		if have == v {
			return s
		}
	}
	return append(s, v)
}
