package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(url string) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(url, model.RetryConfig{
		MaxAttempts:    3,
		InitialDelayMs: 1,
		MaxDelayMs:     5,
	}, 5*time.Second, logger)
}

func testRun() *model.RetrievalRun {
	now := time.Now().UTC()
	return &model.RetrievalRun{
		RunID:       "run-1",
		TriggeredBy: "api",
		StartedAt:   now.Add(-time.Minute),
		FinishedAt:  now,
		Status:      model.RunStatusCompleted,
		JobCount:    10,
		Rounds:      2,
		RecordCount: 1234,
	}
}

func TestNotifyDeliversPayload(t *testing.T) {
	var body RunPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := testDispatcher(server.URL)

	attempts, err := d.Notify(context.Background(), FormatRunPayload(testRun()))
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, http.StatusOK, attempts[0].StatusCode)

	assert.Contains(t, body.Text, "run-1")
	assert.Equal(t, "wikigeo", body.Metadata["service"])
	assert.Equal(t, float64(2), body.Details["rounds"])
}

func TestNotifyRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := testDispatcher(server.URL)

	attempts, err := d.Notify(context.Background(), FormatRunPayload(testRun()))
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
	assert.Equal(t, http.StatusOK, attempts[2].StatusCode)
}

func TestNotifyStopsOnClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	d := testDispatcher(server.URL)

	attempts, err := d.Notify(context.Background(), FormatRunPayload(testRun()))
	require.Error(t, err)
	assert.Len(t, attempts, 1)
}

func TestNotifyExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := testDispatcher(server.URL)

	attempts, err := d.Notify(context.Background(), FormatRunPayload(testRun()))
	require.Error(t, err)
	assert.Len(t, attempts, 3)
}
