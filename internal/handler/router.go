package handler

import (
	"net/http"

	"github.com/dandantas/wikigeo/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	runHandler     *RunHandler
	datasetHandler *DatasetHandler
	healthHandler  *HealthHandler
}

// NewRouter creates a new router
func NewRouter(
	runHandler *RunHandler,
	datasetHandler *DatasetHandler,
	healthHandler *HealthHandler,
) *Router {
	return &Router{
		runHandler:     runHandler,
		datasetHandler: datasetHandler,
		healthHandler:  healthHandler,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (no middleware)
	mux.HandleFunc("/health", rt.healthHandler.Health)
	mux.HandleFunc("/ready", rt.healthHandler.Ready)

	// API endpoints
	mux.HandleFunc("/api/v1/runs", rt.handleRuns)
	mux.HandleFunc("/api/v1/runs/", rt.runHandler.Get)
	mux.HandleFunc("/api/v1/dataset/export", rt.datasetHandler.Export)
	mux.HandleFunc("/api/v1/dataset/stats", rt.datasetHandler.Stats)

	// Apply middleware
	handler := middleware.Recovery(mux)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}

// handleRuns routes run collection endpoints
func (rt *Router) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.runHandler.List(w, r)
	case http.MethodPost:
		rt.runHandler.Trigger(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
