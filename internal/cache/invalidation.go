package cache

import (
	"context"

	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/metrics"
)

// Cache keys for the read endpoints that use the fallback.
const (
	KeyDashboard = "cache:dashboard"
	KeyAnalytics = "cache:analytics"
	KeyOrders    = "cache:orders"
	KeyProfile   = "cache:profile"
	KeyWatering  = "cache:watering"
)

// Domain events that invalidate cached reads.
const (
	EventInventoryUpdated = "inventory_updated"
	EventOrderUpdated     = "order_updated"
	EventSettingsUpdated  = "settings_updated"
	EventPlantWatered     = "plant_watered"
)

// invalidationRules maps each mutation event to the cache keys it makes
// unreliable. A fetch after the event can never be answered with data from
// before it.
var invalidationRules = map[string][]string{
	EventInventoryUpdated: {KeyDashboard, KeyAnalytics},
	EventOrderUpdated:     {KeyDashboard, KeyOrders, KeyAnalytics},
	EventSettingsUpdated:  {KeyProfile},
	EventPlantWatered:     {KeyWatering},
}

// Invalidate deletes every cache key affected by the given event. Unknown
// events are a no-op.
func (f *Fallback) Invalidate(ctx context.Context, event string) {
	keys, ok := invalidationRules[event]
	if !ok {
		return
	}

	for _, key := range keys {
		if err := f.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("event", event).Str("key", key).Msg("Failed to invalidate cache key")
			continue
		}
		metrics.RecordCacheWrite(key, "invalidate")
	}

	log.Debug().Str("event", event).Strs("keys", keys).Msg("Invalidated cache keys")
}

// Clear deletes all cache keys, as on logout.
func (f *Fallback) Clear(ctx context.Context) {
	for _, key := range []string{KeyDashboard, KeyAnalytics, KeyOrders, KeyProfile, KeyWatering} {
		if err := f.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to clear cache key")
		}
	}
}
