package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	bedHeaderRow      = 2
	bedCountryColumn  = "Country Name"
	LatestBedEstimate = "Latest Bed Estimate"
)

var bedMetadataColumns = map[string]bool{
	bedCountryColumn: true,
	"Country Code":   true,
	"Indicator Name": true,
	"Indicator Code": true,
}

// LatestEstimate returns the last strictly positive value of a chronological series.
// Missing values are NaN. ok is false when the series has no positive value at all.
func LatestEstimate(values []float64) (estimate float64, ok bool) {
	for _, v := range values {
		if v > 0 {
			estimate, ok = v, true
		}
	}
	return estimate, ok
}

// PreprocessBedData reads a World Bank hospital beds (per 1000 people) CSV and reduces every
// country to its latest estimate.
func PreprocessBedData(path string) (schema.BedTable, error) {
	var table schema.BedTable
	err := readFile(path, func(r io.Reader) error {
		var err error
		table, err = ReadBedData(r, path)
		return err
	})
	return table, err
}

// ReadBedData is PreprocessBedData over a reader, name is only used in errors.
func ReadBedData(r io.Reader, name string) (schema.BedTable, error) {
	records, err := readRecords(r)
	if err != nil {
		return schema.BedTable{}, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) <= bedHeaderRow {
		return schema.BedTable{}, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}

	header := records[bedHeaderRow]
	index := columnIndex(header)
	if err := requireColumns(index, bedCountryColumn); err != nil {
		return schema.BedTable{}, fmt.Errorf("%s: %w", name, err)
	}

	years := make([]int, 0, len(header))
	for i, column := range header {
		column = strings.TrimSpace(column)
		if column == "" || bedMetadataColumns[column] || index[column] != i {
			continue
		}
		years = append(years, i)
	}

	table := schema.BedTable{Estimates: make(map[string]float64)}
	seen := make(map[string]bool)
	values := make([]float64, len(years))
	for n, record := range records[bedHeaderRow+1:] {
		country := consts.BedCountryAlias.Apply(cell(record, index[bedCountryColumn]))
		if country == "" {
			continue
		}

		for i, col := range years {
			v, _, err := parseNumber(cell(record, col))
			if err != nil {
				return schema.BedTable{}, &ParseError{
					Path:   name,
					Row:    bedHeaderRow + n + 2,
					Column: header[col],
					Value:  cell(record, col),
					Err:    err,
				}
			}
			values[i] = v
		}

		if seen[country] {
			log.WithField("country", country).Warn("duplicate bed data row ignored")
			continue
		}
		seen[country] = true

		if estimate, ok := LatestEstimate(values); ok {
			table.Estimates[country] = estimate
			table.Order = append(table.Order, country)
		} else {
			table.Undefined = append(table.Undefined, country)
		}
	}

	log.WithFields(logrus.Fields{
		"estimates": len(table.Estimates),
		"undefined": len(table.Undefined),
	}).Debug("bed data preprocessed")

	return table, nil
}
