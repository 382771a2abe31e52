// Package upstream – AvailabilityGateway
//
// This file implements the streaming availability gateway. It fetches the
// per-title provider list (GET /shows/{id}?country=…, API key in the
// X-Api-Key header), classifies the raw streaming options into
// subscription/rent/buy, and records the provider's rate-limit telemetry
// headers into the quota tracker on every response.
//
// A 404 from upstream means the title is unknown to the availability
// database; that is a successful lookup with NotFound set, never an error.
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
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sushilbang/stream-where/internal/cache"
	"github.com/sushilbang/stream-where/internal/domain"
	"github.com/sushilbang/stream-where/internal/quota"
)

const (
	opAvailability = "availability"

	headerAPIKey             = "X-Api-Key"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitLimit     = "X-RateLimit-Limit"

	imdbTitleBase = "https://www.imdb.com/title/"
)

// availabilityResponse mirrors the upstream per-title payload. Streaming
// options are grouped by country code.
type availabilityResponse struct {
	IMDBID           string                 `json:"imdbId"`
	StreamingOptions map[string][]rawOption `json:"streamingOptions"`
}

// rawOption is one unclassified streaming offer as upstream reports it.
type rawOption struct {
	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
	Type string `json:"type"`
}

// AvailabilityGateway looks up which services carry a title in the
// configured country. Construct with NewAvailabilityGateway; safe for
// concurrent use.
type AvailabilityGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
	country string
	store   *cache.Store[domain.AvailabilityResult]
	tracker *quota.Tracker

	// titleCaser derives a display name when upstream omits one
	// (e.g. "apple_tv" -> "Apple Tv").
	titleCaser cases.Caser
}

// NewAvailabilityGateway wires the gateway to its HTTP client, provider
// base URL, API key, country code, result cache, and quota tracker.
func NewAvailabilityGateway(client *http.Client, baseURL, apiKey, country string, store *cache.Store[domain.AvailabilityResult], tracker *quota.Tracker) *AvailabilityGateway {
	return &AvailabilityGateway{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		country:    strings.ToLower(country),
		store:      store,
		tracker:    tracker,
		titleCaser: cases.Title(language.English),
	}
}

// availabilityCacheKey builds the cache key for a title id. The "title:"
// prefix keeps these entries disjoint from search entries; the id is used
// raw since it is already canonical.
func availabilityCacheKey(titleID string) string {
	return "title:" + titleID
}

// Lookup returns the classified availability for titleID, consulting the
// cache before the network. Successful results (including NotFound ones)
// are written back; failures never are.
func (g *AvailabilityGateway) Lookup(ctx context.Context, titleID string) (domain.AvailabilityResult, error) {
	key := availabilityCacheKey(titleID)
	if hit, ok := g.store.Get(key); ok {
		return hit, nil
	}

	u := fmt.Sprintf("%s/shows/%s?country=%s", g.baseURL, url.PathEscape(titleID), url.QueryEscape(g.country))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.AvailabilityResult{}, &Error{Kind: KindUnavailable, Op: opAvailability, Err: err}
	}
	req.Header.Set(headerAPIKey, g.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Warn().Str("title_id", titleID).Err(err).Msg("availability transport failure")
		return domain.AvailabilityResult{}, &Error{Kind: KindUnavailable, Op: opAvailability, Err: err}
	}
	defer resp.Body.Close()

	g.recordTelemetry(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		res := domain.AvailabilityResult{
			SubscriptionOptions: []domain.ProviderOption{},
			RentOptions:         []domain.ProviderOption{},
			BuyOptions:          []domain.ProviderOption{},
			NotFound:            true,
		}
		g.store.Put(key, res)
		return res, nil
	default:
		gerr := g.classifyFailure(resp.StatusCode)
		log.Warn().Str("title_id", titleID).Int("status", resp.StatusCode).
			Str("kind", gerr.Kind.String()).Msg("availability lookup rejected")
		return domain.AvailabilityResult{}, gerr
	}

	var body availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Str("title_id", titleID).Err(err).Msg("availability malformed response")
		return domain.AvailabilityResult{}, &Error{Kind: KindUnavailable, Op: opAvailability, Err: err}
	}

	res := g.classifyOptions(body)
	g.store.Put(key, res)
	return res, nil
}

// recordTelemetry feeds any rate-limit headers on resp into the quota
// tracker. Missing or malformed headers are recorded as -1, which the
// tracker ignores.
func (g *AvailabilityGateway) recordTelemetry(resp *http.Response) {
	remaining := headerInt(resp, headerRateLimitRemaining)
	limit := headerInt(resp, headerRateLimitLimit)
	if remaining >= 0 || limit >= 0 {
		g.tracker.RecordAvailabilityTelemetry(remaining, limit)
	}
}

// classifyFailure maps a non-200/404 availability status onto the
// error taxonomy.
func (g *AvailabilityGateway) classifyFailure(status int) *Error {
	switch status {
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Op: opAvailability, Status: status}
	case http.StatusPaymentRequired:
		return &Error{Kind: KindQuotaExceeded, Op: opAvailability, Status: status}
	case http.StatusForbidden:
		return &Error{Kind: KindAccessDenied, Op: opAvailability, Status: status}
	default:
		return &Error{Kind: KindUnavailable, Op: opAvailability, Status: status}
	}
}

// classifyOptions buckets the raw streaming entries for the configured
// country by their type discriminator. Classification is by exact match;
// unrecognized types are dropped silently.
func (g *AvailabilityGateway) classifyOptions(body availabilityResponse) domain.AvailabilityResult {
	res := domain.AvailabilityResult{
		SubscriptionOptions: []domain.ProviderOption{},
		RentOptions:         []domain.ProviderOption{},
		BuyOptions:          []domain.ProviderOption{},
	}
	if body.IMDBID != "" {
		res.IMDBLink = imdbTitleBase + body.IMDBID
	}

	for _, raw := range body.StreamingOptions[g.country] {
		opt := domain.ProviderOption{
			ServiceID:   raw.Service.ID,
			ServiceName: raw.Service.Name,
		}
		if opt.ServiceName == "" && opt.ServiceID != "" {
			opt.ServiceName = g.titleCaser.String(strings.ReplaceAll(opt.ServiceID, "_", " "))
		}
		switch raw.Type {
		case string(domain.OfferSubscription):
			opt.OfferType = domain.OfferSubscription
			res.SubscriptionOptions = append(res.SubscriptionOptions, opt)
		case string(domain.OfferRent):
			opt.OfferType = domain.OfferRent
			res.RentOptions = append(res.RentOptions, opt)
		case string(domain.OfferBuy):
			opt.OfferType = domain.OfferBuy
			res.BuyOptions = append(res.BuyOptions, opt)
		}
	}
	return res
}

// headerInt parses a numeric header, returning -1 when absent or invalid.
func headerInt(resp *http.Response, name string) int {
	v := strings.TrimSpace(resp.Header.Get(name))
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
