package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// healthHandler returns console health and the last known gateway reachability
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, updated, err := rm.status.Get()

	gateway := "unknown"
	switch {
	case err != nil:
		gateway = "unreachable"
	case status != nil:
		gateway = "reachable"
	}

	resp := map[string]interface{}{
		"status":    "ok",
		"gateway":   gateway,
		"in_flight": rm.tracker.Active(),
	}
	if !updated.IsZero() {
		resp["checked_at"] = updated.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// currentStatus returns the status polled in the background. Before the
// first poll has succeeded it is fetched on demand.
func (rm *RouteManager) currentStatus(ctx context.Context) (*models.SystemStatus, time.Time, bool, error) {
	status, updated, err := rm.status.Get()
	if status == nil {
		if err := rm.status.Refresh(ctx); err != nil {
			return nil, time.Time{}, false, err
		}
		status, updated, err = rm.status.Get()
	}
	return status, updated, err != nil, nil
}

// statusSnapshotHandler serves the status polled in the background, so
// auto-refreshing pages do not each hit the gateway
func (rm *RouteManager) statusSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	status, updated, stale, err := rm.currentStatus(r.Context())
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"detail": "gateway unreachable"})
		return
	}

	resp := map[string]interface{}{
		"status":     status,
		"updated_at": updated.UTC().Format(time.RFC3339),
		"stale":      stale,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
