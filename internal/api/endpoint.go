package api

import "time"

// Cache freshness windows used by the read endpoints. Profile data changes
// rarely and tolerates a much longer window.
const (
	DefaultFreshness = 5 * time.Minute
	ProfileFreshness = time.Hour
)

// Endpoint describes one backend operation. The descriptor replaces the
// source app's per-module copies of the header/retry/parse pattern: every
// call site supplies an Endpoint and goes through the same pipeline.
type Endpoint struct {
	// Name is the human-readable context label used in logs and metrics.
	Name string
	// Method is the HTTP method. Non-idempotent methods are retried only
	// under an Idempotency-Key (see Client.doWithRetry).
	Method string
	// Path is appended to the client base URL and may carry a query string.
	Path string
	// Cacheable marks read endpoints whose responses are kept as a local
	// fallback for backend outages.
	Cacheable bool
	// CacheKey is the fixed storage key for the cached response.
	CacheKey string
	// Freshness is the maximum age a cached response may have before it
	// stops being served as a fallback.
	Freshness time.Duration
	// CacheTag carries extra entry context (a timeframe, a filter) that must
	// match before a cached response is reused.
	CacheTag string
	// Idempotent marks a write endpoint as safe to retry under an
	// Idempotency-Key.
	Idempotent bool
}
