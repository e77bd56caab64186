package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/findhope/findhope-api/api"
)

// Metrics exported for testing purposes
type Metrics struct{}

// MetricsSummaryHandler returns the request totals and per-route aggregates
// for the admin dashboard
func (m Metrics) MetricsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	collector := api.GetMetrics()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"summary": collector.GetSummary(),
		"routes":  collector.GetRouteMetrics(),
	})
}
