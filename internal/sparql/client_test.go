package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientQuery(t *testing.T) {
	var gotQuery, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotQuery = r.FormValue("query")
		gotUserAgent = r.Header.Get("User-Agent")

		w.Header().Set("Content-Type", "application/sparql-results+json")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "wikigeo-test/1.0", 5*time.Second)

	bindings, err := client.Query(context.Background(), CitiesQuery("Q30"))
	require.NoError(t, err)
	assert.Len(t, bindings, 2)

	assert.Contains(t, gotQuery, "wd:Q30")
	assert.Equal(t, "wikigeo-test/1.0", gotUserAgent)
}

func TestClientQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "wikigeo-test/1.0", 5*time.Second)

	_, err := client.Query(context.Background(), CountriesQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientQueryMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not sparql json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "wikigeo-test/1.0", 5*time.Second)

	_, err := client.Query(context.Background(), CountriesQuery)
	assert.Error(t, err)
}

func TestClientQueryUnreachableEndpoint(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "wikigeo-test/1.0", time.Second)

	_, err := client.Query(context.Background(), CountriesQuery)
	assert.Error(t, err)
}
