// Package domain defines the core data model shared by the gateway,
// service, and HTTP layers: movie summaries, streaming availability,
// bundle coverage reports, and upstream quota snapshots.
//
// All types are plain value types with JSON tags. Nothing here is
// persisted; the application is intentionally stateless beyond its
// in-process caches.
package domain

import "time"

// OfferType classifies how a title is offered on a streaming service.
type OfferType string

// Known offer types. Upstream records whose type matches none of these
// are dropped during classification.
const (
	OfferSubscription OfferType = "subscription"
	OfferRent         OfferType = "rent"
	OfferBuy          OfferType = "buy"
)

// MovieSummary is the normalized result of a metadata search. The ID is
// the upstream-stable identifier and is the only field used for identity;
// a summary is immutable once constructed from an upstream response.
//
// Fields:
//   - ID: upstream catalog identifier, stable across repeated searches
//     within the cache TTL.
//   - Title: display title.
//   - Year: release year as reported upstream ("" when unknown).
//   - PosterURL: full poster image URL, omitted when upstream has none.
type MovieSummary struct {
	ID        string `json:"id"        example:"tt1375666"`
	Title     string `json:"title"     example:"Inception"`
	Year      string `json:"year"      example:"2010"`
	PosterURL string `json:"posterUrl,omitempty" example:"https://image.tmdb.org/t/p/w500/abc.jpg"`
}

// ProviderOption is a single streaming offer for a title, produced by
// classifying a raw upstream streaming record by its type discriminator.
type ProviderOption struct {
	// ServiceID is the upstream service identifier (e.g. "netflix").
	ServiceID string `json:"serviceId" example:"netflix"`
	// ServiceName is the human-readable service name when upstream
	// provides one; derived from ServiceID otherwise.
	ServiceName string `json:"serviceName,omitempty" example:"Netflix"`
	// OfferType is one of subscription, rent, or buy.
	OfferType OfferType `json:"offerType" example:"subscription"`
}

// AvailabilityResult holds the classified streaming options for one title.
//
// NotFound is set when the availability database does not know the title;
// that is a successful lookup, not a failure. Degraded is set when the
// upstream call failed and an empty fallback was substituted so the caller
// can still render a best-effort answer.
type AvailabilityResult struct {
	IMDBLink            string           `json:"imdbLink"`
	SubscriptionOptions []ProviderOption `json:"subscriptionOptions"`
	RentOptions         []ProviderOption `json:"rentOptions"`
	BuyOptions          []ProviderOption `json:"buyOptions"`
	NotFound            bool             `json:"notFound"`
	Degraded            bool             `json:"degraded"`
}

// EmptyAvailability returns a degraded, empty result used as the fallback
// when a single-title availability lookup fails transiently.
func EmptyAvailability() AvailabilityResult {
	return AvailabilityResult{
		SubscriptionOptions: []ProviderOption{},
		RentOptions:         []ProviderOption{},
		BuyOptions:          []ProviderOption{},
		Degraded:            true,
	}
}

// ServiceCoverage is one entry of a bundle ranking: a streaming service
// together with the distinct requested movie titles it covers under its
// subscription tier.
type ServiceCoverage struct {
	ServiceID string `json:"serviceId" example:"netflix"`
	// CoveredMovieTitles is deduplicated; a movie appearing twice under
	// the same service counts once.
	CoveredMovieTitles []string `json:"coveredMovieTitles"`
	// CoveragePercent = round(100 * covered / totalRequested).
	CoveragePercent int `json:"coveragePercent" example:"75"`
}

// MovieDetail describes the outcome for a single requested movie name
// inside a bundle analysis.
type MovieDetail struct {
	QueryName     string `json:"queryName" example:"inception"`
	ResolvedTitle string `json:"resolvedTitle,omitempty"`
	ResolvedYear  string `json:"resolvedYear,omitempty"`
	Found         bool   `json:"found"`
	// SubscriptionServiceNames lists the services carrying this movie in
	// a flat subscription, in the order they appear upstream.
	SubscriptionServiceNames []string `json:"subscriptionServiceNames"`
}

// BundleReport is the full result of analyzing a batch of movie names:
// which single subscription service covers the most of them, plus enough
// detail to explain the ranking.
type BundleReport struct {
	TotalRequested int      `json:"totalRequested"`
	FoundCount     int      `json:"foundCount"`
	NotFoundNames  []string `json:"notFoundNames"`
	// ServiceRanking is sorted descending by covered-title count; ties
	// preserve the order services were first encountered.
	ServiceRanking []ServiceCoverage `json:"serviceRanking"`
	// BestService is the first ranking entry, omitted when no service
	// covers anything.
	BestService *ServiceCoverage `json:"bestService,omitempty"`
	// UncoveredTitles are titles of found movies that no service carries
	// under a subscription.
	UncoveredTitles []string      `json:"uncoveredTitles"`
	PerMovieDetail  []MovieDetail `json:"perMovieDetail"`
}

// QuotaSnapshot is a read-only view of observed upstream quota state.
// Availability counters are nil until the first telemetry is observed.
type QuotaSnapshot struct {
	SearchDailyCount      int       `json:"searchProviderDailyCount"`
	SearchResetAt         time.Time `json:"searchProviderResetAt"`
	AvailabilityRemaining *int      `json:"availabilityProviderRemaining,omitempty"`
	AvailabilityLimit     *int      `json:"availabilityProviderLimit,omitempty"`
}
