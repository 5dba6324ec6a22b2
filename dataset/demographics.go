package dataset

import (
	"fmt"
	"io"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

// LoadDemographics reads the demographic table indexed by Country/Region.
func LoadDemographics(path string) ([]schema.Demographics, error) {
	var rows []schema.Demographics
	err := readFile(path, func(r io.Reader) error {
		var err error
		rows, err = ReadDemographics(r, path)
		return err
	})
	return rows, err
}

// ReadDemographics is LoadDemographics over a reader. Country names are canonicalized but not
// aliased; aliasing is up to the caller joining the table.
func ReadDemographics(r io.Reader, name string) ([]schema.Demographics, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}

	header := records[0]
	index := columnIndex(header)
	if err := requireColumns(index, consts.CountryColumn, consts.PopulationColumn); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	rows := make([]schema.Demographics, 0, len(records)-1)
	for n, record := range records[1:] {
		country := consts.CanonicalCountry(cell(record, index[consts.CountryColumn]))
		if country == "" {
			continue
		}
		row := schema.Demographics{
			Country:    country,
			Attributes: make(map[string]float64),
		}

		for column, i := range index {
			if column == consts.CountryColumn {
				continue
			}
			v, present, err := parseNumber(cell(record, i))
			if err == nil && !present && column == consts.PopulationColumn {
				err = fmt.Errorf("population is required")
			}
			if err != nil {
				return nil, &ParseError{Path: name, Row: n + 2, Column: column, Value: cell(record, i), Err: err}
			}
			if !present {
				continue
			}
			if column == consts.PopulationColumn {
				row.Population = v
			} else {
				row.Attributes[column] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
