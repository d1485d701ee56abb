package model

import "time"

// ScheduleLock is the distributed lock document that prevents two instances
// from starting the same scheduled refresh concurrently. Expired locks are
// reaped by a TTL index.
type ScheduleLock struct {
	Name      string    `json:"name" bson:"name"`
	LockedBy  string    `json:"locked_by" bson:"locked_by"`
	LockedAt  time.Time `json:"locked_at" bson:"locked_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}
