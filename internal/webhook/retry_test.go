package webhook

import (
	"errors"
	"testing"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDelayExponentialBackoff(t *testing.T) {
	rs := NewRetryStrategy(model.RetryConfig{
		MaxAttempts:    5,
		InitialDelayMs: 100,
		MaxDelayMs:     1000,
		Multiplier:     2.0,
	})

	assert.Equal(t, time.Duration(0), rs.CalculateDelay(0))
	assert.Equal(t, 100*time.Millisecond, rs.CalculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, rs.CalculateDelay(2))
	assert.Equal(t, 400*time.Millisecond, rs.CalculateDelay(3))
	assert.Equal(t, 800*time.Millisecond, rs.CalculateDelay(4))
	// Capped at max delay.
	assert.Equal(t, 1000*time.Millisecond, rs.CalculateDelay(5))
}

func TestRetryStrategyDefaults(t *testing.T) {
	rs := NewRetryStrategy(model.RetryConfig{})
	assert.Equal(t, 3, rs.GetMaxAttempts())
	assert.Equal(t, time.Second, rs.CalculateDelay(1))
}

func TestShouldRetry(t *testing.T) {
	rs := NewRetryStrategy(model.RetryConfig{MaxAttempts: 3})

	// Network error is retryable.
	assert.True(t, rs.ShouldRetry(1, 0, errors.New("connection refused")))

	// Server errors and rate limiting are retryable.
	assert.True(t, rs.ShouldRetry(1, 500, nil))
	assert.True(t, rs.ShouldRetry(1, 429, nil))

	// Other client errors are not.
	assert.False(t, rs.ShouldRetry(1, 400, nil))
	assert.False(t, rs.ShouldRetry(1, 404, nil))

	// Attempts exhausted.
	assert.False(t, rs.ShouldRetry(3, 500, nil))

	// Success does not retry.
	assert.False(t, rs.ShouldRetry(1, 200, nil))
}
