package agent

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/metrics"
)

// SetupRoutes configures and returns the status server router
func SetupRoutes(a *Agent) *mux.Router {
	r := mux.NewRouter()

	r.Use(metrics.Middleware)

	r.HandleFunc("/health", HealthHandler).Methods("GET")
	r.HandleFunc("/status", a.StatusHandler).Methods("GET")
	r.HandleFunc("/refresh", a.RefreshHandler).Methods("POST")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}

// HealthHandler handles GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// StatusHandler handles GET /status with the last refresh outcome
func (a *Agent) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := a.Status()

	w.Header().Set("Content-Type", "application/json")
	if !status.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// RefreshHandler handles POST /refresh, forcing an immediate warm-up cycle
func (a *Agent) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("On-demand refresh requested")

	status := a.Refresh(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
