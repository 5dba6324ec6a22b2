package dataset_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/coronavirus-calculator/dataset"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

func TestReadDemographics(t *testing.T) {
	data := `Country/Region,Population,Density,Median Age
Canada,37742154,4,41
US,331002651,36,38
Iceland,341243,,37
`
	rows, err := dataset.ReadDemographics(strings.NewReader(data), "demographics.csv")
	assert.NoError(t, err)
	assert.Equal(t, []schema.Demographics{
		{Country: "Canada", Population: 37742154, Attributes: map[string]float64{"Density": 4, "Median Age": 41}},
		{Country: "US", Population: 331002651, Attributes: map[string]float64{"Density": 36, "Median Age": 38}},
		{Country: "Iceland", Population: 341243, Attributes: map[string]float64{"Median Age": 37}},
	}, rows)
}

func TestReadDemographicsByteOrderMark(t *testing.T) {
	rows, err := dataset.ReadDemographics(strings.NewReader("\ufeffCountry/Region,Population\nCanada,100\n"), "demographics.csv")
	assert.NoError(t, err)
	assert.Equal(t, []schema.Demographics{
		{Country: "Canada", Population: 100, Attributes: map[string]float64{}},
	}, rows)
}

func TestReadDemographicsErrors(t *testing.T) {
	_, err := dataset.ReadDemographics(strings.NewReader("Country/Region,Density\nCanada,4\n"), "demographics.csv")
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn), "population column is required")

	_, err = dataset.ReadDemographics(strings.NewReader("Country/Region,Population\nCanada,\n"), "demographics.csv")
	var parseErr *dataset.ParseError
	assert.True(t, errors.As(err, &parseErr), "empty population should fail")

	_, err = dataset.ReadDemographics(strings.NewReader("Country/Region,Population\nCanada,many\n"), "demographics.csv")
	assert.True(t, errors.As(err, &parseErr), "malformed population should fail")
	assert.Equal(t, "many", parseErr.Value)
}

func TestReadAgeData(t *testing.T) {
	data := `Age Group,Proportion,Mortality
0-9,0.25,0.00002
10-79,0.5,0.01
80+,0.25,0.1
`
	groups, err := dataset.ReadAgeData(strings.NewReader(data), "age_data.csv")
	assert.NoError(t, err)
	assert.Equal(t, []schema.AgeGroup{
		{Group: "0-9", Proportion: 0.25, Mortality: 0.00002},
		{Group: "10-79", Proportion: 0.5, Mortality: 0.01},
		{Group: "80+", Proportion: 0.25, Mortality: 0.1},
	}, groups)

	_, err = dataset.ReadAgeData(strings.NewReader("Age Group,Proportion,Mortality\n0-9,,0.1\n"), "age_data.csv")
	var parseErr *dataset.ParseError
	assert.True(t, errors.As(err, &parseErr))
}
