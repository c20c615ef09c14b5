package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"greenerhq.com/greener/internal/cache"
	"greenerhq.com/greener/internal/metrics"
	"greenerhq.com/greener/internal/session"
)

// Client is the resilient Greener API client. Every call runs the same
// pipeline: header composition from the local identity, retrying transport,
// response normalization, and for cacheable reads a local fallback.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *session.Resolver
	cache      *cache.Fallback
	policy     RetryPolicy
}

// Config configures a Client. Session is required; Cache is optional and
// disables the fallback layer when nil.
type Config struct {
	BaseURL    string
	Session    *session.Resolver
	Cache      *cache.Fallback
	Policy     RetryPolicy
	HTTPClient *http.Client
}

// NewClient creates a client for the Greener backend.
func NewClient(cfg Config) *Client {
	policy := cfg.Policy
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if policy.AttemptTimeout == 0 {
		policy.AttemptTimeout = DefaultRetryPolicy().AttemptTimeout
	}
	if policy.BaseDelay == 0 {
		policy.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	if policy.MaxDelay == 0 {
		policy.MaxDelay = DefaultRetryPolicy().MaxDelay
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		session:    cfg.Session,
		cache:      cfg.Cache,
		policy:     policy,
	}
}

// Call performs one logical call against an endpoint. body, when non-nil, is
// JSON-encoded once and replayed on every attempt. Cacheable GET endpoints go
// through the fallback layer; everything else hits the transport directly.
func (c *Client) Call(ctx context.Context, ep Endpoint, body interface{}) (map[string]interface{}, error) {
	start := time.Now()

	fetch := func(ctx context.Context) (map[string]interface{}, error) {
		return c.doWithRetry(ctx, ep, body)
	}

	var payload map[string]interface{}
	var err error
	if ep.Cacheable && ep.Method == http.MethodGet && c.cache != nil {
		payload, err = c.cache.Run(ctx, ep.CacheKey, ep.Freshness, c.cacheTag(ctx, ep), fetch)
	} else {
		payload, err = fetch(ctx)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordAPIRequest(ep.Name, status, time.Since(start))

	return payload, err
}

// Invalidate forwards a domain event to the cache fallback, if one is wired.
func (c *Client) Invalidate(ctx context.Context, event string) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, event)
	}
}

// cacheTag binds a cache entry to the identity it was fetched for, so a
// fallback read never serves another business's data.
func (c *Client) cacheTag(ctx context.Context, ep Endpoint) string {
	tag := c.session.Identity(ctx).BusinessID
	if ep.CacheTag != "" {
		tag += ":" + ep.CacheTag
	}
	return tag
}

func marshalBody(body interface{}) ([]byte, error) {
	return json.Marshal(body)
}
