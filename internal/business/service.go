package business

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"greenerhq.com/greener/internal/api"
	"greenerhq.com/greener/internal/cache"
)

// Service exposes the business-portal operations over the resilient client.
// Each operation supplies its endpoint descriptor, adapts the payload into
// the shape the caller consumes, and fires cache invalidation on mutations.
type Service struct {
	client *api.Client
}

// NewService creates a business service over the given client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Dashboard fetches the business overview. Served from cache for up to five
// minutes when the backend is unreachable.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:      "business-dashboard",
		Method:    http.MethodGet,
		Path:      "/business/dashboard",
		Cacheable: true,
		CacheKey:  cache.KeyDashboard,
		Freshness: api.DefaultFreshness,
	}, nil)
	if err != nil {
		return Dashboard{}, err
	}
	return adaptDashboard(payload), nil
}

// Analytics fetches the sales report for a timeframe ("week", "month",
// "year"). Cached per timeframe.
func (s *Service) Analytics(ctx context.Context, timeframe string) (Analytics, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:      "business-analytics",
		Method:    http.MethodGet,
		Path:      "/business-analytics?timeframe=" + url.QueryEscape(timeframe),
		Cacheable: true,
		CacheKey:  cache.KeyAnalytics,
		CacheTag:  timeframe,
		Freshness: api.DefaultFreshness,
	}, nil)
	if err != nil {
		return Analytics{}, err
	}
	return adaptAnalytics(payload, timeframe), nil
}

// Inventory fetches the live plant listings. Not cached: stock counts go
// stale too quickly to be a useful fallback.
func (s *Service) Inventory(ctx context.Context) ([]InventoryItem, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:   "business-inventory",
		Method: http.MethodGet,
		Path:   "/business/inventory",
	}, nil)
	if err != nil {
		return nil, err
	}
	return adaptInventory(payload), nil
}

// UpdateInventoryItem patches one listing and invalidates the dashboard and
// analytics caches.
func (s *Service) UpdateInventoryItem(ctx context.Context, itemID string, updates map[string]interface{}) (InventoryItem, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:       "business-inventory-update",
		Method:     http.MethodPatch,
		Path:       "/business/inventory/" + url.PathEscape(itemID),
		Idempotent: true,
	}, updates)
	if err != nil {
		return InventoryItem{}, err
	}

	s.client.Invalidate(ctx, cache.EventInventoryUpdated)
	return adaptInventoryItem(payload), nil
}

// Orders fetches the order list.
func (s *Service) Orders(ctx context.Context) ([]Order, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:      "business-orders",
		Method:    http.MethodGet,
		Path:      "/business/orders",
		Cacheable: true,
		CacheKey:  cache.KeyOrders,
		Freshness: api.DefaultFreshness,
	}, nil)
	if err != nil {
		return nil, err
	}
	return adaptOrders(payload), nil
}

// UpdateOrderStatus patches one order's status and invalidates the caches
// derived from order state.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string) (Order, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:       "business-order-update",
		Method:     http.MethodPatch,
		Path:       "/business/orders/" + url.PathEscape(orderID),
		Idempotent: true,
	}, map[string]interface{}{"status": status})
	if err != nil {
		return Order{}, err
	}

	s.client.Invalidate(ctx, cache.EventOrderUpdated)
	return adaptOrder(payload), nil
}

// Profile fetches the business profile. Profile data changes rarely, so the
// cache window is a full hour.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:      "business-profile",
		Method:    http.MethodGet,
		Path:      "/business/profile",
		Cacheable: true,
		CacheKey:  cache.KeyProfile,
		Freshness: api.ProfileFreshness,
	}, nil)
	if err != nil {
		return Profile{}, err
	}
	return adaptProfile(payload), nil
}

// UpdateSettings patches the business settings and invalidates the cached
// profile.
func (s *Service) UpdateSettings(ctx context.Context, settings map[string]interface{}) error {
	_, err := s.client.Call(ctx, api.Endpoint{
		Name:       "business-settings-update",
		Method:     http.MethodPatch,
		Path:       "/business/settings",
		Idempotent: true,
	}, settings)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	s.client.Invalidate(ctx, cache.EventSettingsUpdated)
	return nil
}

// WateringChecklist fetches the watering checklist.
func (s *Service) WateringChecklist(ctx context.Context) ([]WateringTask, error) {
	payload, err := s.client.Call(ctx, api.Endpoint{
		Name:      "business-watering",
		Method:    http.MethodGet,
		Path:      "/business/watering",
		Cacheable: true,
		CacheKey:  cache.KeyWatering,
		Freshness: api.DefaultFreshness,
	}, nil)
	if err != nil {
		return nil, err
	}
	return adaptWateringChecklist(payload), nil
}

// MarkPlantWatered records a completed watering task and invalidates the
// checklist cache.
func (s *Service) MarkPlantWatered(ctx context.Context, plantID string) error {
	_, err := s.client.Call(ctx, api.Endpoint{
		Name:       "business-watering-complete",
		Method:     http.MethodPost,
		Path:       "/business/watering/" + url.PathEscape(plantID) + "/complete",
		Idempotent: true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to mark plant watered: %w", err)
	}

	s.client.Invalidate(ctx, cache.EventPlantWatered)
	return nil
}
