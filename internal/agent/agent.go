package agent

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/business"
	"greenerhq.com/greener/internal/metrics"
	"greenerhq.com/greener/internal/notify"
)

// DefaultRefreshInterval keeps every cacheable view younger than its
// freshness window, so an outage always finds a servable fallback entry.
const DefaultRefreshInterval = 4 * time.Minute

// Agent is the headless sync process. It registers the push token once,
// then periodically warms the cacheable business views so the local
// fallback layer stays fresh.
type Agent struct {
	service  *business.Service
	notifier *notify.Manager
	interval time.Duration

	mu     sync.Mutex
	status RefreshStatus
}

// NewAgent creates an agent. A zero interval selects the default.
func NewAgent(service *business.Service, notifier *notify.Manager, interval time.Duration) *Agent {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Agent{
		service:  service,
		notifier: notifier,
		interval: interval,
		status:   RefreshStatus{Message: "refresh not yet run"},
	}
}

// Run initializes notifications, performs an immediate warm-up refresh, and
// then refreshes on the interval until the context is cancelled.
func (a *Agent) Run(ctx context.Context) {
	a.notifier.Initialize(ctx)

	a.Refresh(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Sync agent stopping")
			return
		case <-ticker.C:
			a.Refresh(ctx)
		}
	}
}

// Refresh warms every cacheable view once. Individual failures are logged
// and counted; one slow or broken endpoint never blocks the others from
// refreshing their cache entries.
func (a *Agent) Refresh(ctx context.Context) RefreshStatus {
	start := time.Now()
	var succeeded, failed int

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"dashboard", func(ctx context.Context) error {
			_, err := a.service.Dashboard(ctx)
			return err
		}},
		{"analytics", func(ctx context.Context) error {
			_, err := a.service.Analytics(ctx, "week")
			return err
		}},
		{"orders", func(ctx context.Context) error {
			_, err := a.service.Orders(ctx)
			return err
		}},
		{"profile", func(ctx context.Context) error {
			_, err := a.service.Profile(ctx)
			return err
		}},
		{"watering", func(ctx context.Context) error {
			_, err := a.service.WateringChecklist(ctx)
			return err
		}},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			break
		}
		if err := step.run(ctx); err != nil {
			log.Warn().Err(err).Str("view", step.name).Msg("Refresh step failed")
			failed++
			continue
		}
		succeeded++
	}

	status := RefreshStatus{
		Ready:     succeeded > 0,
		LastRun:   start.UTC(),
		Succeeded: succeeded,
		Failed:    failed,
	}
	switch {
	case failed == 0:
		status.Message = "all views refreshed"
		metrics.RecordRefreshRun("success")
	case succeeded == 0:
		status.Message = "refresh failed for all views"
		metrics.RecordRefreshRun("error")
	default:
		status.Message = "refresh completed with failures"
		metrics.RecordRefreshRun("partial")
	}

	log.Info().
		Int("succeeded", succeeded).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Refresh cycle completed")

	a.mu.Lock()
	a.status = status
	a.mu.Unlock()

	return status
}

// Status returns the outcome of the most recent refresh cycle.
func (a *Agent) Status() RefreshStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}
