package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/dandantas/wikigeo/internal/sparql"
)

// ErrCountriesAlreadyLoaded is returned when enumeration is requested while
// a job set is already loaded. This is a hard precondition failure, not a
// recoverable state.
var ErrCountriesAlreadyLoaded = errors.New("countries already loaded")

// Discovery performs the one-shot enumeration that seeds the initial job
// set: every country on WikiData with its continent. One Discovery serves
// one run; a fresh instance is created per run.
type Discovery struct {
	client *sparql.Client
	logger *slog.Logger
	jobs   []model.Job
}

// NewDiscovery creates a country discovery for one run
func NewDiscovery(client *sparql.Client, logger *slog.Logger) *Discovery {
	return &Discovery{
		client: client,
		logger: logger,
	}
}

// DiscoverCountries executes the enumeration query and returns the initial
// job list, deduplicated by country code in result order.
func (d *Discovery) DiscoverCountries(ctx context.Context) ([]model.Job, error) {
	if d.jobs != nil {
		return nil, ErrCountriesAlreadyLoaded
	}

	bindings, err := d.client.Query(ctx, sparql.CountriesQuery)
	if err != nil {
		return nil, fmt.Errorf("country enumeration failed: %w", err)
	}

	seen := make(map[string]bool, len(bindings))
	jobs := make([]model.Job, 0, len(bindings))
	for _, binding := range bindings {
		countryCode := sparql.EntityCode(binding["country"])
		if countryCode == "" || seen[countryCode] {
			continue
		}
		seen[countryCode] = true

		jobs = append(jobs, model.Job{
			CountryCode:    countryCode,
			CountryLabel:   binding["countryLabel"],
			ContinentCode:  sparql.EntityCode(binding["continent"]),
			ContinentLabel: binding["continentLabel"],
		})
	}

	d.jobs = jobs
	d.logger.Info("Discovered countries", "count", len(jobs))

	return jobs, nil
}

// Jobs returns the discovered job list, or nil before discovery ran.
func (d *Discovery) Jobs() []model.Job {
	return d.jobs
}
