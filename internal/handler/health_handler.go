package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dandantas/wikigeo/internal/database"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	db      *database.MongoDB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.MongoDB, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

// Health returns liveness status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready returns readiness status, verifying the MongoDB connection
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Client.Ping(ctx, nil); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
