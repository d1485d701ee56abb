package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BatchStat records the outcome of one executed batch within a round.
type BatchStat struct {
	Round       int     `json:"round" bson:"round"`
	Lower       int     `json:"lower" bson:"lower"`
	Upper       int     `json:"upper" bson:"upper"`
	SuccessRate float64 `json:"success_rate" bson:"success_rate"`
}

// RetrievalRun is the history document for one full batch-retry run, from
// the initial job set through convergence.
type RetrievalRun struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RunID       string             `json:"run_id" bson:"run_id"`
	TriggeredBy string             `json:"triggered_by" bson:"triggered_by"` // "startup", "api", "schedule"
	StartedAt   time.Time          `json:"started_at" bson:"started_at"`
	FinishedAt  time.Time          `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
	Status      string             `json:"status" bson:"status"`
	JobCount    int                `json:"job_count" bson:"job_count"`
	Rounds      int                `json:"rounds" bson:"rounds"`
	RecordCount int                `json:"record_count" bson:"record_count"`
	BatchStats  []BatchStat        `json:"batch_stats" bson:"batch_stats"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
	Webhook     []WebhookAttempt   `json:"webhook_attempts,omitempty" bson:"webhook_attempts,omitempty"`
}

// WebhookAttempt records one delivery attempt of the run-completion webhook.
type WebhookAttempt struct {
	Attempt     int       `json:"attempt" bson:"attempt"`
	StatusCode  int       `json:"status_code" bson:"status_code"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	AttemptedAt time.Time `json:"attempted_at" bson:"attempted_at"`
	DurationMs  int64     `json:"duration_ms" bson:"duration_ms"`
}

// RunSummary is the compact shape returned by list endpoints.
type RunSummary struct {
	RunID       string `json:"run_id"`
	TriggeredBy string `json:"triggered_by"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
	Status      string `json:"status"`
	JobCount    int    `json:"job_count"`
	Rounds      int    `json:"rounds"`
	RecordCount int    `json:"record_count"`
}

// ToSummary converts a RetrievalRun to its list representation.
func (r *RetrievalRun) ToSummary() RunSummary {
	var finished string
	if !r.FinishedAt.IsZero() {
		finished = r.FinishedAt.Format(time.RFC3339)
	}

	return RunSummary{
		RunID:       r.RunID,
		TriggeredBy: r.TriggeredBy,
		StartedAt:   r.StartedAt.Format(time.RFC3339),
		FinishedAt:  finished,
		Status:      r.Status,
		JobCount:    r.JobCount,
		Rounds:      r.Rounds,
		RecordCount: r.RecordCount,
	}
}
