// Package services – StatusService
//
// Introspection over the process's quota and cache state. Reads local
// state only; never touches an upstream provider.
package services

import (
	"github.com/sushilbang/stream-where/internal/domain"
	"github.com/sushilbang/stream-where/internal/quota"
)

// Sizer reports how many entries a cache currently holds.
type Sizer interface {
	Len() int
}

// StatusReport is the payload served by the status endpoint.
type StatusReport struct {
	Quota                    domain.QuotaSnapshot `json:"quota"`
	SearchCacheEntries       int                  `json:"searchCacheEntries"`
	AvailabilityCacheEntries int                  `json:"availabilityCacheEntries"`
	CacheEntries             int                  `json:"cacheEntries"`
}

// StatusService assembles StatusReports from injected state.
type StatusService struct {
	Quota             *quota.Tracker
	SearchCache       Sizer
	AvailabilityCache Sizer
}

// NewStatusService constructs a StatusService.
func NewStatusService(q *quota.Tracker, searchCache, availabilityCache Sizer) *StatusService {
	return &StatusService{Quota: q, SearchCache: searchCache, AvailabilityCache: availabilityCache}
}

// Status returns the current quota snapshot and cache entry counts.
func (s *StatusService) Status() StatusReport {
	search := s.SearchCache.Len()
	avail := s.AvailabilityCache.Len()
	return StatusReport{
		Quota:                    s.Quota.Snapshot(),
		SearchCacheEntries:       search,
		AvailabilityCacheEntries: avail,
		CacheEntries:             search + avail,
	}
}
