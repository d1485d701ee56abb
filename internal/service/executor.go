package service

import (
	"context"
	"fmt"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/sparql"
)

// Executor retrieves the city record set for one job. It implements
// runner.QueryClient and is safe for concurrent use: each call only reads
// the shared SPARQL client.
type Executor struct {
	client *sparql.Client
}

// NewExecutor creates a new job executor
func NewExecutor(client *sparql.Client) *Executor {
	return &Executor{client: client}
}

// FetchCities queries all cities of the job's country and normalizes the
// bindings into records carrying the job's identifying columns. Network,
// remote-side, and parse errors all surface as one retryable error.
func (e *Executor) FetchCities(ctx context.Context, job model.Job) ([]model.CityRecord, error) {
	bindings, err := e.client.Query(ctx, sparql.CitiesQuery(job.CountryCode))
	if err != nil {
		return nil, err
	}

	records := make([]model.CityRecord, 0, len(bindings))
	for _, binding := range bindings {
		population, err := sparql.Number(binding["population"])
		if err != nil {
			return nil, fmt.Errorf("malformed population for city %s: %w", binding["city"], err)
		}
		area, err := sparql.Number(binding["area"])
		if err != nil {
			return nil, fmt.Errorf("malformed area for city %s: %w", binding["city"], err)
		}

		records = append(records, model.CityRecord{
			CityURI:        binding["city"],
			CityLabel:      binding["cityLabel"],
			Population:     population,
			Area:           area,
			CountryCode:    job.CountryCode,
			CountryLabel:   job.CountryLabel,
			ContinentCode:  job.ContinentCode,
			ContinentLabel: job.ContinentLabel,
		})
	}

	return records, nil
}
