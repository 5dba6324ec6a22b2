package dataset_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/coronavirus-calculator/dataset"
)

const bedCSV = `"Data Source","World Development Indicators",

"Last Updated Date","2020-03-18",

"Country Name","Country Code","Indicator Name","Indicator Code","2015","2016","2017","2018",
"Canada","CAN","Hospital beds (per 1,000 people)","SH.MED.BEDS.ZS","2.7","2.6","2.5","",
"Iran, Islamic Rep.","IRN","Hospital beds (per 1,000 people)","SH.MED.BEDS.ZS","0","0","2.1","0",
"Aruba","ABW","Hospital beds (per 1,000 people)","SH.MED.BEDS.ZS","","","","",
"Russian Federation","RUS","Hospital beds (per 1,000 people)","SH.MED.BEDS.ZS","8.2","","","",
`

type latestEstimateTestCase struct {
	values   []float64
	estimate float64
	ok       bool
}

func TestLatestEstimate(t *testing.T) {
	nan := math.NaN()
	cases := []latestEstimateTestCase{
		{[]float64{0, 0, 2.1, 0}, 2.1, true},
		{[]float64{0, 0, 0}, 0, false},
		{[]float64{nan, 3, nan}, 3, true},
		{[]float64{-1, 4, -2}, 4, true},
		{[]float64{1.5, 2.5}, 2.5, true},
		{[]float64{nan, nan}, 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		estimate, ok := dataset.LatestEstimate(c.values)
		assert.Equal(t, c.ok, ok, "wrong ok for %v", c.values)
		assert.Equal(t, c.estimate, estimate, "wrong estimate for %v", c.values)
	}
}

func TestReadBedData(t *testing.T) {
	table, err := dataset.ReadBedData(strings.NewReader(bedCSV), "beds.csv")
	assert.NoError(t, err)

	assert.Equal(t, []string{"Canada", "Iran", "Russia"}, table.Order)
	assert.Equal(t, map[string]float64{
		"Canada": 2.5,
		"Iran":   2.1,
		"Russia": 8.2,
	}, table.Estimates)
	assert.Equal(t, []string{"Aruba"}, table.Undefined)

	_, ok := table.Estimate("Aruba")
	assert.False(t, ok, "aruba should have no estimate")
}

func TestReadBedDataByteOrderMark(t *testing.T) {
	table, err := dataset.ReadBedData(strings.NewReader("\ufeff"+bedCSV), "beds.csv")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Canada", "Iran", "Russia"}, table.Order)
	assert.Equal(t, 2.5, table.Estimates["Canada"])
}

func TestReadBedDataMalformedCell(t *testing.T) {
	malformed := strings.Replace(bedCSV, `"2.6"`, `"2,6x"`, 1)
	_, err := dataset.ReadBedData(strings.NewReader(malformed), "beds.csv")

	var parseErr *dataset.ParseError
	if assert.True(t, errors.As(err, &parseErr), "expected parse error, got %v", err) {
		assert.Equal(t, "2016", parseErr.Column)
		assert.Equal(t, "2,6x", parseErr.Value)
		assert.Equal(t, 4, parseErr.Row)
	}
}

func TestReadBedDataMissingHeader(t *testing.T) {
	_, err := dataset.ReadBedData(strings.NewReader(`"Data Source","World Development Indicators",`), "beds.csv")
	assert.True(t, errors.Is(err, dataset.ErrMissingHeader))

	noCountry := strings.Replace(bedCSV, `"Country Name"`, `"Name"`, 1)
	_, err = dataset.ReadBedData(strings.NewReader(noCountry), "beds.csv")
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
}
