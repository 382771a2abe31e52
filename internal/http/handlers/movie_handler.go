// Movie HTTP handlers.
//
// This file exposes the movie-facing REST endpoints:
//   - GET /search?q=<text>     (metadata search, top 5)
//   - GET /providers/:id       (streaming availability for one title)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. The providers
// endpoint keeps the legacy field names (link/flatrate/rent/buy) for
// client compatibility.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sushilbang/stream-where/internal/domain"
	"github.com/sushilbang/stream-where/internal/services"
	"github.com/sushilbang/stream-where/internal/upstream"
)

//
// Service contracts (context-aware)
//

// MovieSearcher defines the search operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MovieSearcher interface {
	// Search returns the top matching movie summaries for a query.
	Search(ctx context.Context, query string) ([]domain.MovieSummary, error)
}

// AvailabilityLookup defines the per-title availability operation.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AvailabilityLookup interface {
	// Lookup returns classified streaming options for a title id.
	Lookup(ctx context.Context, titleID string) (domain.AvailabilityResult, error)
}

// BundleAnalyzer defines the batch coverage operation.
type BundleAnalyzer interface {
	// Analyze computes per-service coverage for a batch of movie names.
	Analyze(ctx context.Context, names []string) (*domain.BundleReport, error)
}

// StatusReporter surfaces process quota/cache introspection.
type StatusReporter interface {
	Status() services.StatusReport
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for search, availability, bundle
// analysis, and status. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	searcher MovieSearcher
	avail    AvailabilityLookup
	bundle   BundleAnalyzer
	status   StatusReporter
}

// New constructs a Handlers instance bound to the given services.
func New(searcher MovieSearcher, avail AvailabilityLookup, bundle BundleAnalyzer, status StatusReporter) *Handlers {
	return &Handlers{searcher: searcher, avail: avail, bundle: bundle, status: status}
}

//
// DTOs
//

// ProvidersResponse is the availability payload for one title. Field
// names match the original client contract: "flatrate" carries the
// subscription options.
type ProvidersResponse struct {
	Link     string                  `json:"link"`
	Flatrate []domain.ProviderOption `json:"flatrate"`
	Rent     []domain.ProviderOption `json:"rent"`
	Buy      []domain.ProviderOption `json:"buy"`
	NotFound bool                    `json:"notFound"`
	Degraded bool                    `json:"degraded"`
}

//
// Handlers
//

// SearchMovies godoc
// @ID          searchMovies
// @Summary     Search movies by name
// @Description Returns up to five matching movies from the metadata provider.
// @Tags        Movies
// @Produce     json
//
// @Param       q  query  string  true  "Free-text movie name"  example(inception)
//
// @Success     200  {array}   domain.MovieSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     401  {object}  handlers.ErrorResponse  "Provider key rejected"
// @Failure     429  {object}  handlers.ErrorResponse  "Provider rate limit"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider unavailable"
// @Router      /search [get]
func (h *Handlers) SearchMovies(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), query)
	if err != nil {
		failUpstream(c, err)
		return
	}
	ok(c, http.StatusOK, results)
}

// GetProviders godoc
// @ID          getProviders
// @Summary     Streaming availability for a title
// @Description Returns subscription/rent/buy options for a resolved title id.
//              A transient provider fault degrades to an empty payload with
//              degraded=true rather than failing the request.
// @Tags        Movies
// @Produce     json
//
// @Param       id  path  string  true  "Title id from /search"  example(27205)
//
// @Success     200  {object}  handlers.ProvidersResponse
// @Failure     402  {object}  handlers.ErrorResponse  "Provider quota exhausted"
// @Failure     403  {object}  handlers.ErrorResponse  "Provider access denied"
// @Failure     429  {object}  handlers.ErrorResponse  "Provider rate limit"
// @Router      /providers/{id} [get]
func (h *Handlers) GetProviders(c *gin.Context) {
	titleID := strings.TrimSpace(c.Param("id"))
	if titleID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title id is required")
		return
	}

	res, err := h.avail.Lookup(c.Request.Context(), titleID)
	if err != nil {
		if k, isUpstream := upstream.KindOf(err); isUpstream && k == upstream.KindUnavailable {
			// Best-effort partial answer beats a hard failure here.
			res = domain.EmptyAvailability()
		} else {
			failUpstream(c, err)
			return
		}
	}

	ok(c, http.StatusOK, ProvidersResponse{
		Link:     res.IMDBLink,
		Flatrate: res.SubscriptionOptions,
		Rent:     res.RentOptions,
		Buy:      res.BuyOptions,
		NotFound: res.NotFound,
		Degraded: res.Degraded,
	})
}
