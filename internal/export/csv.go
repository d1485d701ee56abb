// Package export writes the aggregated dataset as a combined CSV table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dandantas/wikigeo/internal/model"
)

// Header is the column layout of the combined export: the job's identifying
// columns followed by the per-city fields.
var Header = []string{
	"country_code",
	"country_label",
	"continent_code",
	"continent_label",
	"city_uri",
	"city_label",
	"population",
	"area",
}

// WriteCSV writes the records as CSV to w, header first.
func WriteCSV(w io.Writer, records []model.CityRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.CountryCode,
			record.CountryLabel,
			record.ContinentCode,
			record.ContinentLabel,
			record.CityURI,
			record.CityLabel,
			strconv.FormatFloat(record.Population, 'f', -1, 64),
			strconv.FormatFloat(record.Area, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// WriteFile writes the records as CSV to the given path, replacing any
// existing file.
func WriteFile(path string, records []model.CityRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return err
	}

	return file.Sync()
}
