package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dandantas/wikigeo/internal/sparql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countriesResponse = `{
  "head": {"vars": ["country", "continent", "countryLabel", "continentLabel"]},
  "results": {
    "bindings": [
      {
        "country": {"type": "uri", "value": "http://www.wikidata.org/entity/Q30"},
        "continent": {"type": "uri", "value": "http://www.wikidata.org/entity/Q49"},
        "countryLabel": {"xml:lang": "en", "type": "literal", "value": "United States of America"},
        "continentLabel": {"xml:lang": "en", "type": "literal", "value": "North America"}
      },
      {
        "country": {"type": "uri", "value": "http://www.wikidata.org/entity/Q142"},
        "continent": {"type": "uri", "value": "http://www.wikidata.org/entity/Q46"},
        "countryLabel": {"xml:lang": "en", "type": "literal", "value": "France"},
        "continentLabel": {"xml:lang": "en", "type": "literal", "value": "Europe"}
      },
      {
        "country": {"type": "uri", "value": "http://www.wikidata.org/entity/Q30"},
        "continent": {"type": "uri", "value": "http://www.wikidata.org/entity/Q538"},
        "countryLabel": {"xml:lang": "en", "type": "literal", "value": "United States of America"},
        "continentLabel": {"xml:lang": "en", "type": "literal", "value": "Oceania"}
      }
    ]
  }
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sparqlTestClient(t *testing.T, response string) *sparql.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return sparql.NewClient(server.URL, "wikigeo-test/1.0", 5*time.Second)
}

func TestDiscoverCountriesDeduplicatesByCode(t *testing.T) {
	discovery := NewDiscovery(sparqlTestClient(t, countriesResponse), discardLogger())

	jobs, err := discovery.DiscoverCountries(context.Background())
	require.NoError(t, err)

	// Q30 appears on two continents; the first binding wins.
	require.Len(t, jobs, 2)
	assert.Equal(t, "Q30", jobs[0].CountryCode)
	assert.Equal(t, "United States of America", jobs[0].CountryLabel)
	assert.Equal(t, "Q49", jobs[0].ContinentCode)
	assert.Equal(t, "North America", jobs[0].ContinentLabel)
	assert.Equal(t, "Q142", jobs[1].CountryCode)

	assert.Equal(t, jobs, discovery.Jobs())
}

func TestDiscoverCountriesTwiceFails(t *testing.T) {
	discovery := NewDiscovery(sparqlTestClient(t, countriesResponse), discardLogger())

	_, err := discovery.DiscoverCountries(context.Background())
	require.NoError(t, err)

	_, err = discovery.DiscoverCountries(context.Background())
	assert.ErrorIs(t, err, ErrCountriesAlreadyLoaded)
}

func TestDiscoverCountriesEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := sparql.NewClient(server.URL, "wikigeo-test/1.0", 5*time.Second)
	discovery := NewDiscovery(client, discardLogger())

	_, err := discovery.DiscoverCountries(context.Background())
	assert.Error(t, err)
	assert.Nil(t, discovery.Jobs())
}
