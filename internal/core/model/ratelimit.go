package model

import "time"

// DefaultRateLimit is the request quota Toggl Track applies per window.
const DefaultRateLimit = 30

// RateLimitInfo is the API quota state derived from response headers.
// Remaining and ResetAt are nil until the server has reported them.
type RateLimitInfo struct {
	Limit         int
	Remaining     *int
	ResetAt       *time.Time
	LastUpdatedAt time.Time
}

// IsLow reports whether 30% or less of the quota remains. Unknown quota is
// never considered low.
func (info RateLimitInfo) IsLow() bool {
	if info.Remaining == nil {
		return false
	}
	limit := info.Limit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	return float64(*info.Remaining)/float64(limit) <= 0.3
}
