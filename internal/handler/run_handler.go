package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/service"
)

// RunHandler handles retrieval run endpoints
type RunHandler struct {
	retrieval *service.RetrievalService
	runs      *database.RunRepository
}

// NewRunHandler creates a new run handler
func NewRunHandler(retrieval *service.RetrievalService, runs *database.RunRepository) *RunHandler {
	return &RunHandler{
		retrieval: retrieval,
		runs:      runs,
	}
}

// Trigger starts a new retrieval run in the background
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	runID, err := h.retrieval.StartRun("api")
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "A retrieval run is already in progress")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID,
		"status": model.RunStatusRunning,
	})
}

// List returns run history, newest first
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 1)
	limit := parseQueryInt(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	runs, total, err := h.runs.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summaries := make([]model.RunSummary, 0, len(runs))
	for i := range runs {
		summaries = append(summaries, runs[i].ToSummary())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  summaries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Get returns one run by its run ID
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "Missing run ID")
		return
	}

	run, err := h.runs.GetByRunID(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, run)
}
