package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/metrics"
)

// IdempotencyKeyHeader carries the per-call key that makes a retried write
// replay instead of duplicate on the backend.
const IdempotencyKeyHeader = "Idempotency-Key"

// RetryPolicy bounds one logical call: at most MaxAttempts sequential
// attempts, each racing AttemptTimeout, with exponential backoff in between.
type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BaseDelay      time.Duration
	MaxDelay       time.Duration
}

// DefaultRetryPolicy returns the production retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 15 * time.Second,
		BaseDelay:      time.Second,
		MaxDelay:       5 * time.Second,
	}
}

// backoffDelay returns the sleep inserted after the given failed attempt
// (1-based): BaseDelay doubled per attempt, capped at MaxDelay. Doubling
// stops at the cap so large attempt counts cannot overflow the delay.
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt && delay < p.MaxDelay; i++ {
		delay *= 2
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// doWithRetry performs one logical call against an endpoint. Read methods
// retry on any error, including non-2xx APIErrors. Write methods are retried
// only when the endpoint is marked Idempotent, in which case a fresh
// Idempotency-Key is generated once per logical call and attached to every
// attempt; unmarked writes get exactly one attempt.
func (c *Client) doWithRetry(ctx context.Context, ep Endpoint, body interface{}) (map[string]interface{}, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = marshalBody(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s: %w", ep.Name, err)
		}
	}

	idempotencyKey := ""
	maxAttempts := c.policy.MaxAttempts
	if !isReadMethod(ep.Method) {
		if ep.Idempotent {
			idempotencyKey = uuid.NewString()
		} else {
			maxAttempts = 1
		}
	}

	for attempt := 1; ; attempt++ {
		payload, err := c.doAttempt(ctx, ep, bodyBytes, idempotencyKey)
		if err == nil {
			return payload, nil
		}

		if ctx.Err() != nil || attempt >= maxAttempts {
			return nil, err
		}

		delay := c.policy.backoffDelay(attempt)
		log.Warn().
			Err(err).
			Str("endpoint", ep.Name).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Request failed, retrying")
		metrics.RecordAPIRetry(ep.Name)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// doAttempt performs a single attempt with its own timeout.
func (c *Client) doAttempt(ctx context.Context, ep Endpoint, body []byte, idempotencyKey string) (map[string]interface{}, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.policy.AttemptTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, ep.Method, c.baseURL+ep.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", ep.Name, err)
	}

	for key, value := range c.session.Headers(ctx) {
		req.Header.Set(key, value)
	}
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ep.Name, err)
	}

	return normalizeResponse(resp, ep.Name)
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
