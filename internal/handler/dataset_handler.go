package handler

import (
	"net/http"

	"github.com/dandantas/wikigeo/internal/database"
	"github.com/dandantas/wikigeo/internal/export"
)

// DatasetHandler serves the aggregated dataset
type DatasetHandler struct {
	datasets *database.DatasetRepository
	markers  *database.MarkerRepository
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasets *database.DatasetRepository, markers *database.MarkerRepository) *DatasetHandler {
	return &DatasetHandler{
		datasets: datasets,
		markers:  markers,
	}
}

// Export streams the aggregated dataset as a combined CSV file
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	records, err := h.datasets.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="wikigeo_cities.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, records); err != nil {
		// Headers are already sent; nothing left to do but log via middleware.
		return
	}
}

// Stats returns dataset and marker counts
func (h *DatasetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.datasets.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	markers, err := h.markers.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"datasets":        datasets,
		"failure_markers": markers,
	})
}
