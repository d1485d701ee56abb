package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
)

// Dispatcher delivers run-completion notifications with retry logic
type Dispatcher struct {
	url            string
	retryConfig    model.RetryConfig
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	logger         *slog.Logger
}

// NewDispatcher creates a webhook dispatcher for the configured target URL
func NewDispatcher(url string, retryConfig model.RetryConfig, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		url:         url,
		retryConfig: retryConfig,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: NewCircuitBreaker(),
		logger:         logger,
	}
}

// Notify delivers the run payload with exponential-backoff retries. It
// returns every attempt made so the caller can record them on the run
// document; the error reports the final outcome only.
func (d *Dispatcher) Notify(ctx context.Context, payload RunPayload) ([]model.WebhookAttempt, error) {
	if !d.circuitBreaker.CanAttempt() {
		d.logger.Warn("Circuit breaker is open, skipping webhook delivery",
			"webhook_url", d.url,
			"circuit_state", d.circuitBreaker.GetStateName(),
		)
		return nil, fmt.Errorf("circuit breaker is open")
	}

	retryStrategy := NewRetryStrategy(d.retryConfig)
	attempts := make([]model.WebhookAttempt, 0, retryStrategy.GetMaxAttempts())

	for attempt := 1; attempt <= retryStrategy.GetMaxAttempts(); attempt++ {
		result := d.deliver(ctx, attempt, payload)
		attempts = append(attempts, result)

		if result.Error == "" && result.StatusCode >= 200 && result.StatusCode < 300 {
			d.logger.Info("Webhook delivered successfully",
				"webhook_url", d.url,
				"attempt", attempt,
				"status_code", result.StatusCode,
			)
			d.circuitBreaker.RecordSuccess()
			return attempts, nil
		}

		var attemptErr error
		if result.Error != "" {
			attemptErr = fmt.Errorf("%s", result.Error)
		}
		if !retryStrategy.ShouldRetry(attempt, result.StatusCode, attemptErr) {
			break
		}

		if attempt < retryStrategy.GetMaxAttempts() {
			delay := retryStrategy.CalculateDelay(attempt)
			d.logger.Warn("Webhook delivery failed, retrying",
				"webhook_url", d.url,
				"attempt", attempt,
				"next_retry_ms", delay.Milliseconds(),
				"error", result.Error,
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return attempts, ctx.Err()
			}
		}
	}

	d.logger.Error("Webhook delivery failed after all retries",
		"webhook_url", d.url,
		"attempts", len(attempts),
	)
	d.circuitBreaker.RecordFailure()
	return attempts, fmt.Errorf("webhook delivery failed after %d attempts", len(attempts))
}

// deliver performs a single delivery attempt
func (d *Dispatcher) deliver(ctx context.Context, attempt int, payload RunPayload) model.WebhookAttempt {
	start := time.Now()
	result := model.WebhookAttempt{
		Attempt:     attempt,
		AttemptedAt: start.UTC(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to marshal payload: %v", err)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("Request failed: %v", err)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	result.StatusCode = resp.StatusCode
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}
