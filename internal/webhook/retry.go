package webhook

import (
	"math"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
)

// RetryStrategy handles exponential backoff retry logic
type RetryStrategy struct {
	config model.RetryConfig
}

// NewRetryStrategy creates a new retry strategy
func NewRetryStrategy(config model.RetryConfig) *RetryStrategy {
	config.SetDefaults()
	return &RetryStrategy{
		config: config,
	}
}

// CalculateDelay calculates the delay for a given attempt using exponential backoff
// Formula: delay = min(initial_delay * (multiplier ^ attempt), max_delay)
func (rs *RetryStrategy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delayMs := float64(rs.config.InitialDelayMs) * math.Pow(rs.config.Multiplier, float64(attempt-1))

	if delayMs > float64(rs.config.MaxDelayMs) {
		delayMs = float64(rs.config.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}

// ShouldRetry determines if a retry should be attempted based on the outcome
func (rs *RetryStrategy) ShouldRetry(attempt int, statusCode int, err error) bool {
	if attempt >= rs.config.MaxAttempts {
		return false
	}

	// Network errors are retryable
	if err != nil {
		return true
	}

	// Server errors and rate limiting are retryable
	if statusCode >= 500 && statusCode < 600 {
		return true
	}
	if statusCode == 429 {
		return true
	}

	// Other client errors are not
	if statusCode >= 400 && statusCode < 500 {
		return false
	}

	// Other non-success codes are retryable
	return statusCode >= 300
}

// GetMaxAttempts returns the maximum number of attempts
func (rs *RetryStrategy) GetMaxAttempts() int {
	return rs.config.MaxAttempts
}
