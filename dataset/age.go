package dataset

import (
	"fmt"
	"io"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	proportionColumn = "Proportion"
	mortalityColumn  = "Mortality"
)

// LoadAgeData reads the age distribution and mortality per age group.
func LoadAgeData(path string) ([]schema.AgeGroup, error) {
	var groups []schema.AgeGroup
	err := readFile(path, func(r io.Reader) error {
		var err error
		groups, err = ReadAgeData(r, path)
		return err
	})
	return groups, err
}

func ReadAgeData(r io.Reader, name string) ([]schema.AgeGroup, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}

	index := columnIndex(records[0])
	if err := requireColumns(index, consts.AgeGroupColumn, proportionColumn, mortalityColumn); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	groups := make([]schema.AgeGroup, 0, len(records)-1)
	for n, record := range records[1:] {
		group := schema.AgeGroup{Group: cell(record, index[consts.AgeGroupColumn])}
		for column, target := range map[string]*float64{
			proportionColumn: &group.Proportion,
			mortalityColumn:  &group.Mortality,
		} {
			v, present, err := parseNumber(cell(record, index[column]))
			if err == nil && !present {
				err = fmt.Errorf("value is required")
			}
			if err != nil {
				return nil, &ParseError{Path: name, Row: n + 2, Column: column, Value: cell(record, index[column]), Err: err}
			}
			*target = v
		}
		groups = append(groups, group)
	}
	return groups, nil
}
