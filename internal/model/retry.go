package model

// RetryConfig controls the exponential backoff used for webhook delivery.
type RetryConfig struct {
	MaxAttempts    int     `json:"max_attempts" bson:"max_attempts"`
	InitialDelayMs int     `json:"initial_delay_ms" bson:"initial_delay_ms"`
	MaxDelayMs     int     `json:"max_delay_ms" bson:"max_delay_ms"`
	Multiplier     float64 `json:"multiplier" bson:"multiplier"`
}

// SetDefaults fills in zero-valued fields with sensible defaults.
func (rc *RetryConfig) SetDefaults() {
	if rc.MaxAttempts <= 0 {
		rc.MaxAttempts = 3
	}
	if rc.InitialDelayMs <= 0 {
		rc.InitialDelayMs = 1000
	}
	if rc.MaxDelayMs <= 0 {
		rc.MaxDelayMs = 30000
	}
	if rc.Multiplier <= 0 {
		rc.Multiplier = 2.0
	}
}
