package model

import "time"

// Job represents one unit of retrieval work: all cities of a single country.
// A job is uniquely identified by the (CountryCode, ContinentCode) pair and
// is immutable once created.
type Job struct {
	CountryCode    string `json:"country_code" bson:"country_code"`
	CountryLabel   string `json:"country_label" bson:"country_label"`
	ContinentCode  string `json:"continent_code" bson:"continent_code"`
	ContinentLabel string `json:"continent_label" bson:"continent_label"`
}

// Key returns the deterministic durable key for this job. It is derived from
// the job identity alone so that markers and artifacts can be addressed
// without any additional lookup.
func (j Job) Key() string {
	return j.CountryCode + j.ContinentCode
}

// FailureMarker is the durable record of a not-yet-successful job. The full
// job is embedded so the retry set can be reconstructed from markers alone,
// even after a process restart. At most one marker exists per job identity.
type FailureMarker struct {
	JobKey   string    `json:"job_key" bson:"job_key"`
	Job      Job       `json:"job" bson:"job"`
	Cause    string    `json:"cause" bson:"cause"`
	FailedAt time.Time `json:"failed_at" bson:"failed_at"`
}
