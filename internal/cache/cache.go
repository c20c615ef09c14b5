package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/metrics"
	"greenerhq.com/greener/internal/storage"
)

// Entry is the serialized form of a cached response. Timestamp is epoch
// milliseconds. Tag carries the endpoint-specific context (business id,
// timeframe) that must match before a fallback read is served.
type Entry struct {
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
	Tag       string                 `json:"tag,omitempty"`
}

// Fallback masks transient backend unavailability for read-mostly endpoints:
// successful responses are written through to the store, and a fetch failure
// is answered from the store while the entry is still fresh. The cached data
// is advisory only and is always overwritten whole, never merged.
type Fallback struct {
	store storage.Store
	now   func() time.Time
}

// New creates a cache fallback over the given store.
func New(store storage.Store) *Fallback {
	return &Fallback{
		store: store,
		now:   time.Now,
	}
}

// Run executes fetch and caches its result under key. When fetch fails, a
// stored entry younger than freshness with a matching tag is returned with a
// fromCache marker; otherwise the fetch error propagates unchanged.
func (f *Fallback) Run(ctx context.Context, key string, freshness time.Duration, tag string, fetch func(context.Context) (map[string]interface{}, error)) (map[string]interface{}, error) {
	payload, fetchErr := fetch(ctx)
	if fetchErr == nil {
		f.write(ctx, key, tag, payload)
		return payload, nil
	}

	entry, ok := f.read(ctx, key)
	if !ok {
		metrics.RecordCacheRead(key, "miss")
		return nil, fetchErr
	}

	age := f.now().UnixMilli() - entry.Timestamp
	if age >= freshness.Milliseconds() || entry.Tag != tag {
		metrics.RecordCacheRead(key, "stale")
		return nil, fetchErr
	}

	metrics.RecordCacheRead(key, "hit")
	log.Info().
		Str("key", key).
		Int64("age_ms", age).
		Msg("Serving cached response after fetch failure")

	entry.Data["fromCache"] = true
	return entry.Data, nil
}

// write stores a fresh entry. Store failures are logged and absorbed; the
// live response has already succeeded and must still reach the caller.
func (f *Fallback) write(ctx context.Context, key, tag string, payload map[string]interface{}) {
	entry := Entry{
		Data:      payload,
		Timestamp: f.now().UnixMilli(),
		Tag:       tag,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}

	if err := f.store.Set(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
		return
	}

	metrics.RecordCacheWrite(key, "write")
}

func (f *Fallback) read(ctx context.Context, key string) (Entry, bool) {
	raw, err := f.store.Get(ctx, key)
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
		return Entry{}, false
	}
	if entry.Data == nil {
		return Entry{}, false
	}

	return entry, true
}
