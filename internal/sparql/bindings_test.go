package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "head": {"vars": ["city", "cityLabel", "population", "area"]},
  "results": {
    "bindings": [
      {
        "city": {"type": "uri", "value": "http://www.wikidata.org/entity/Q60"},
        "cityLabel": {"xml:lang": "en", "type": "literal", "value": "New York City"},
        "population": {"datatype": "http://www.w3.org/2001/XMLSchema#decimal", "type": "literal", "value": "8804190"},
        "area": {"datatype": "http://www.w3.org/2001/XMLSchema#decimal", "type": "literal", "value": "1213.37"}
      },
      {
        "city": {"type": "uri", "value": "http://www.wikidata.org/entity/Q62"},
        "cityLabel": {"xml:lang": "en", "type": "literal", "value": "San Francisco"},
        "population": {"datatype": "http://www.w3.org/2001/XMLSchema#decimal", "type": "literal", "value": "873965"}
      }
    ]
  }
}`

func TestExtractBindings(t *testing.T) {
	bindings, err := ExtractBindings([]byte(sampleResponse))
	require.NoError(t, err)
	require.Len(t, bindings, 2)

	assert.Equal(t, "http://www.wikidata.org/entity/Q60", bindings[0]["city"])
	assert.Equal(t, "New York City", bindings[0]["cityLabel"])
	assert.Equal(t, "8804190", bindings[0]["population"])
	assert.Equal(t, "1213.37", bindings[0]["area"])

	// The OPTIONAL area variable is simply absent from the second row.
	_, hasArea := bindings[1]["area"]
	assert.False(t, hasArea)
}

func TestExtractBindingsEmptyResults(t *testing.T) {
	bindings, err := ExtractBindings([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	require.NoError(t, err)
	assert.Empty(t, bindings)
}

func TestExtractBindingsMalformed(t *testing.T) {
	_, err := ExtractBindings([]byte(`not json`))
	assert.Error(t, err)

	_, err = ExtractBindings([]byte(`{"results": {}}`))
	assert.Error(t, err)

	_, err = ExtractBindings([]byte(`{"results": {"bindings": "nope"}}`))
	assert.Error(t, err)
}

func TestEntityCode(t *testing.T) {
	assert.Equal(t, "Q30", EntityCode("http://www.wikidata.org/entity/Q30"))
	assert.Equal(t, "Q30", EntityCode("Q30"))
	assert.Equal(t, "", EntityCode(""))
}

func TestNumber(t *testing.T) {
	got, err := Number("1213.37")
	require.NoError(t, err)
	assert.Equal(t, 1213.37, got)

	got, err = Number("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Number("abc")
	assert.Error(t, err)
}
