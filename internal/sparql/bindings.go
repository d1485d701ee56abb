package sparql

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oliveagle/jsonpath"
)

// Binding is one flattened result row: variable name to its string value.
// Variables absent from a row (OPTIONAL clauses) have no entry.
type Binding map[string]string

// ExtractBindings flattens a SPARQL JSON result document into rows of
// variable values. The variable set is query-dependent, so rows are projected
// generically through JSONPath rather than a fixed struct.
func ExtractBindings(body []byte) ([]Binding, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	raw, err := jsonpath.JsonPathLookup(doc, "$.results.bindings")
	if err != nil {
		return nil, fmt.Errorf("missing results.bindings: %w", err)
	}

	rows, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("results.bindings is not an array")
	}

	bindings := make([]Binding, 0, len(rows))
	for _, row := range rows {
		vars, ok := row.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("binding row is not an object")
		}

		binding := make(Binding, len(vars))
		for name, cell := range vars {
			obj, ok := cell.(map[string]interface{})
			if !ok {
				continue
			}
			if value, ok := obj["value"].(string); ok {
				binding[name] = value
			}
		}
		bindings = append(bindings, binding)
	}

	return bindings, nil
}

// EntityCode extracts the trailing entity identifier from a WikiData URI,
// e.g. "http://www.wikidata.org/entity/Q30" -> "Q30".
func EntityCode(uri string) string {
	if idx := strings.LastIndex(uri, "/"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}

// Number coerces a binding value to float64. Missing or empty values yield
// zero without an error so OPTIONAL variables stay optional.
func Number(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert '%s' to number", value)
	}
	return num, nil
}
