package model

import "time"

// CityRecord is one normalized row of retrieved data: a city with its
// population and optional area/continent, plus the identifying columns of
// the job that produced it.
type CityRecord struct {
	CityURI        string  `json:"city_uri" bson:"city_uri"`
	CityLabel      string  `json:"city_label" bson:"city_label"`
	Population     float64 `json:"population" bson:"population"`
	Area           float64 `json:"area,omitempty" bson:"area,omitempty"`
	CountryCode    string  `json:"country_code" bson:"country_code"`
	CountryLabel   string  `json:"country_label" bson:"country_label"`
	ContinentCode  string  `json:"continent_code" bson:"continent_code"`
	ContinentLabel string  `json:"continent_label" bson:"continent_label"`
}

// CityDataset is the durable per-job success artifact: the full record set
// retrieved for one job, keyed by the job's durable key. A retry-success
// replaces the document in place; the runner never deletes it.
type CityDataset struct {
	JobKey      string       `json:"job_key" bson:"job_key"`
	Job         Job          `json:"job" bson:"job"`
	Records     []CityRecord `json:"records" bson:"records"`
	RetrievedAt time.Time    `json:"retrieved_at" bson:"retrieved_at"`
}
