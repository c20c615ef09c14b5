package agent

import "time"

// RefreshStatus describes the outcome of the last warm-up refresh cycle.
type RefreshStatus struct {
	Ready     bool      `json:"ready"`
	LastRun   time.Time `json:"lastRun"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Message   string    `json:"message"`
}
