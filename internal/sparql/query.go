package sparql

import "fmt"

// CountriesQuery enumerates every country listed on WikiData together with
// the continent it belongs to, with English labels.
const CountriesQuery = `SELECT ?country ?continent ?countryLabel ?continentLabel
WHERE
{
  ?country  wdt:P31/wdt:P279* wd:Q6256;
            wdt:P30 ?continent;
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`

// CitiesQuery returns the query for all cities of one country: instances of
// city located in the given country, with their population and, where
// present, area and continent.
func CitiesQuery(countryCode string) string {
	return fmt.Sprintf(`SELECT ?country ?city ?continent ?population ?area ?countryLabel ?cityLabel ?continentLabel
WHERE
{
  ?city wdt:P31/wdt:P279* wd:Q515;
        wdt:P17 wd:%s;
        wdt:P1082 ?population.
  OPTIONAL { ?city wdt:P2046 ?area . }
  OPTIONAL { ?city wdt:P30 ?continent . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`, countryCode)
}
