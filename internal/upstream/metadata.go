// Package upstream – MetadataGateway
//
// This file implements the movie metadata search gateway. It speaks a
// TMDB-shaped API (GET /search/movie?query=…&api_key=…), normalizes the
// response into domain.MovieSummary values, and classifies failures into
// the package error taxonomy. Lookups are cache-first and every outgoing
// network call is recorded in the quota tracker.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sushilbang/stream-where/internal/cache"
	"github.com/sushilbang/stream-where/internal/domain"
	"github.com/sushilbang/stream-where/internal/quota"
)

const (
	// maxSearchResults caps how many summaries a search returns.
	maxSearchResults = 5

	// posterImageBase is a fixed upstream CDN prefix for poster paths.
	posterImageBase = "https://image.tmdb.org/t/p/w500"

	opSearch = "search"
)

// tmdbSearchResponse mirrors the upstream search payload. Only the fields
// the gateway consumes are declared.
type tmdbSearchResponse struct {
	Results []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		PosterPath  string `json:"poster_path"`
	} `json:"results"`
}

// tmdbErrorBody is the structured error the provider attaches to non-2xx
// responses. StatusCode 25 is the provider's "request count over limit"
// signal and is treated as rate limiting regardless of HTTP status.
type tmdbErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// tmdbRateLimitCode is the provider-level status_code for quota exhaustion.
const tmdbRateLimitCode = 25

// MetadataGateway searches the movie metadata provider. Construct with
// NewMetadataGateway; safe for concurrent use.
type MetadataGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
	store   *cache.Store[[]domain.MovieSummary]
	tracker *quota.Tracker
}

// NewMetadataGateway wires a gateway to its HTTP client, provider base
// URL, API key, result cache, and quota tracker. The client's timeout
// bounds every call; a timeout surfaces as KindUnavailable.
func NewMetadataGateway(client *http.Client, baseURL, apiKey string, store *cache.Store[[]domain.MovieSummary], tracker *quota.Tracker) *MetadataGateway {
	return &MetadataGateway{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		store:   store,
		tracker: tracker,
	}
}

// searchCacheKey normalizes a free-text query into its cache key. The
// "search:" prefix keeps search entries from ever colliding with keys of
// other provenance.
func searchCacheKey(query string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(query))
}

// Search returns up to five movie summaries matching query, consulting
// the cache before the network. An empty result set is success, not
// failure, and is cached like any other. Failures are never cached.
func (g *MetadataGateway) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	key := searchCacheKey(query)
	if hit, ok := g.store.Get(key); ok {
		return hit, nil
	}

	u := fmt.Sprintf("%s/search/movie?query=%s&api_key=%s",
		g.baseURL, url.QueryEscape(strings.TrimSpace(query)), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Op: opSearch, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	g.tracker.RecordSearchCall()
	resp, err := g.client.Do(req)
	if err != nil {
		log.Warn().Str("query", query).Err(err).Msg("metadata search transport failure")
		return nil, &Error{Kind: KindUnavailable, Op: opSearch, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		gerr := g.classifyFailure(resp)
		log.Warn().Str("query", query).Int("status", resp.StatusCode).
			Str("kind", gerr.Kind.String()).Msg("metadata search rejected")
		return nil, gerr
	}

	var body tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Str("query", query).Err(err).Msg("metadata search malformed response")
		return nil, &Error{Kind: KindUnavailable, Op: opSearch, Err: err}
	}

	out := make([]domain.MovieSummary, 0, maxSearchResults)
	for _, r := range body.Results {
		if len(out) == maxSearchResults {
			break
		}
		out = append(out, domain.MovieSummary{
			ID:        strconv.FormatInt(r.ID, 10),
			Title:     r.Title,
			Year:      releaseYear(r.ReleaseDate),
			PosterURL: posterURL(r.PosterPath),
		})
	}

	g.store.Put(key, out)
	return out, nil
}

// classifyFailure maps a non-200 search response onto the error taxonomy.
// The provider signals quota exhaustion both via HTTP 429 and via a
// structured status_code in the body, so both are checked.
func (g *MetadataGateway) classifyFailure(resp *http.Response) *Error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Op: opSearch, Status: resp.StatusCode}
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthInvalid, Op: opSearch, Status: resp.StatusCode}
	}

	var eb tmdbErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.StatusCode == tmdbRateLimitCode {
		return &Error{Kind: KindRateLimited, Op: opSearch, Status: resp.StatusCode}
	}
	return &Error{Kind: KindUnavailable, Op: opSearch, Status: resp.StatusCode}
}

// releaseYear extracts the year from an upstream "YYYY-MM-DD" date.
func releaseYear(releaseDate string) string {
	if len(releaseDate) >= 4 {
		return releaseDate[:4]
	}
	return ""
}

// posterURL resolves a relative poster path against the image CDN.
func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterImageBase + path
}
