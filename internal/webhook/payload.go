package webhook

import (
	"fmt"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
)

// RunPayload is the JSON body posted when a retrieval run finishes.
type RunPayload struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Details  map[string]interface{} `json:"details"`
}

// FormatRunPayload builds the completion notification for a finished run.
func FormatRunPayload(run *model.RetrievalRun) RunPayload {
	duration := run.FinishedAt.Sub(run.StartedAt)

	var message string
	if run.Status == model.RunStatusCompleted {
		message = fmt.Sprintf(
			"Retrieval run %s completed: %d jobs converged in %d rounds (%d records, %s)",
			run.RunID, run.JobCount, run.Rounds, run.RecordCount, duration.Round(time.Second),
		)
	} else {
		message = fmt.Sprintf("Retrieval run %s failed: %s", run.RunID, run.Error)
	}

	return RunPayload{
		Text: message,
		Metadata: map[string]interface{}{
			"service":      "wikigeo",
			"run_id":       run.RunID,
			"triggered_by": run.TriggeredBy,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		},
		Details: map[string]interface{}{
			"status":       run.Status,
			"job_count":    run.JobCount,
			"rounds":       run.Rounds,
			"record_count": run.RecordCount,
			"duration_ms":  duration.Milliseconds(),
		},
	}
}
