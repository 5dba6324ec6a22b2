package dataset

import (
	"fmt"
	"io"

	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	mortalityAgeGroupColumn = "Age group"
	mortalityFooterRows     = 3
)

// MortalityByDemographics reads the hospitalization and fatality percentages per age group and
// splits every age group into mutually exclusive outcomes, in long form.
func MortalityByDemographics(path string) ([]schema.MortalityOutcome, error) {
	var outcomes []schema.MortalityOutcome
	err := readFile(path, func(r io.Reader) error {
		var err error
		outcomes, err = ReadMortalityByDemographics(r, path)
		return err
	})
	return outcomes, err
}

func ReadMortalityByDemographics(r io.Reader, name string) ([]schema.MortalityOutcome, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}

	columns := []string{
		string(schema.OutcomeHospitalization),
		string(schema.OutcomeCriticalCare),
		string(schema.OutcomeInfectionFatality),
	}
	index := columnIndex(records[0])
	if err := requireColumns(index, append([]string{mortalityAgeGroupColumn}, columns...)...); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	body := records[1:]
	if len(body) > mortalityFooterRows {
		body = body[:len(body)-mortalityFooterRows]
	} else {
		body = nil
	}

	order := []schema.Outcome{
		schema.OutcomeHospitalization,
		schema.OutcomeCriticalCare,
		schema.OutcomeInfectionFatality,
		schema.OutcomeMildInfection,
	}
	groups := make([]string, len(body))
	shares := make([][]float64, len(body))
	for n, record := range body {
		fractions := make([]float64, len(columns))
		for i, column := range columns {
			v, present, err := parseNumber(cell(record, index[column]))
			if err == nil && !present {
				err = fmt.Errorf("value is required")
			}
			if err != nil {
				return nil, &ParseError{Path: name, Row: n + 2, Column: column, Value: cell(record, index[column]), Err: err}
			}
			fractions[i] = v / 100
		}
		hospitalization, critical, fatality := fractions[0], fractions[1], fractions[2]

		// critical care is reported as a share of hospitalized cases
		critical *= hospitalization
		hospitalization -= critical
		// everybody who died went through critical care first
		critical -= fatality
		mild := 1 - (hospitalization + critical + fatality)

		groups[n] = cell(record, index[mortalityAgeGroupColumn])
		shares[n] = []float64{hospitalization, critical, fatality, mild}
	}

	// long form, one block of age groups per outcome
	outcomes := make([]schema.MortalityOutcome, 0, len(order)*len(body))
	for i, outcome := range order {
		for n, group := range groups {
			outcomes = append(outcomes, schema.MortalityOutcome{
				AgeGroup:   group,
				Outcome:    outcome,
				Percentage: shares[n][i] * 100,
			})
		}
	}
	return outcomes, nil
}
