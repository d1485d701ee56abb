package storage

import (
	"context"
	"testing"

	"github.com/dandantas/wikigeo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func job(country, continent string) model.Job {
	return model.Job{
		CountryCode:   country,
		CountryLabel:  "Country " + country,
		ContinentCode: continent,
	}
}

func records(country string, n int) []model.CityRecord {
	out := make([]model.CityRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.CityRecord{
			CityLabel:   "city",
			CountryCode: country,
			Population:  float64(i + 1),
		})
	}
	return out
}

func TestCommitIsIdempotentPerIdentity(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	j := job("Q30", "Q49")

	require.NoError(t, mem.Commit(ctx, j, records("Q30", 2)))
	require.NoError(t, mem.Commit(ctx, j, records("Q30", 3)))

	// The second commit overwrote the first; the aggregate contains exactly
	// one row-group for the identity.
	agg, err := mem.Aggregate(ctx)
	require.NoError(t, err)
	assert.Len(t, agg, 3)
}

func TestCommitRemovesFailureMarker(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	j := job("Q30", "Q49")

	require.NoError(t, mem.MarkFailed(ctx, j, "timeout"))
	_, hasMarker := mem.MarkerFor(j.Key())
	require.True(t, hasMarker)

	require.NoError(t, mem.Commit(ctx, j, records("Q30", 1)))

	_, hasMarker = mem.MarkerFor(j.Key())
	assert.False(t, hasMarker)

	_, hasDataset := mem.DatasetFor(j.Key())
	assert.True(t, hasDataset)
}

func TestMarkFailedOverwritesPriorMarker(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	j := job("Q30", "Q49")

	require.NoError(t, mem.MarkFailed(ctx, j, "first"))
	require.NoError(t, mem.MarkFailed(ctx, j, "second"))

	jobs, err := mem.Markers(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	marker, ok := mem.MarkerFor(j.Key())
	require.True(t, ok)
	assert.Equal(t, "second", marker.Cause)
}

func TestMarkersReturnsStableKeyOrder(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.MarkFailed(ctx, job("QC", "Q49"), "x"))
	require.NoError(t, mem.MarkFailed(ctx, job("QA", "Q49"), "x"))
	require.NoError(t, mem.MarkFailed(ctx, job("QB", "Q49"), "x"))

	jobs, err := mem.Markers(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "QA", jobs[0].CountryCode)
	assert.Equal(t, "QB", jobs[1].CountryCode)
	assert.Equal(t, "QC", jobs[2].CountryCode)
}

func TestMarkersEmptyWithoutFailures(t *testing.T) {
	mem := NewMemory()

	jobs, err := mem.Markers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
