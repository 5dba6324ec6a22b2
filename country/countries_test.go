package country

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

func testResult() *Result {
	day := time.Date(2020, 3, 30, 0, 0, 0, 0, time.UTC)
	return &Result{
		Records: map[string]schema.CountryRecord{
			"United States": {Country: "United States", Confirmed: 100, Population: 1000000, NumHospitalBeds: 2000},
			"Canada":        {Country: "Canada", Confirmed: 50, Population: 2000000, NumHospitalBeds: 10000},
		},
		Countries: []string{"United States", "Canada"},
		History: []schema.CaseRecord{
			{Date: day.AddDate(0, 0, -1), Country: "United States", Confirmed: 99},
			{Date: day, Country: "United States", Confirmed: 100},
			{Date: day, Country: "Canada", Confirmed: 50},
		},
		Dropped:      []schema.DroppedCountry{{Country: "Atlantis", Reason: schema.DropNoCaseData}},
		LastModified: testModified,
		Source:       SourceCache,
	}
}

func staticAssembler(result *Result, err error) Assembler {
	return AssemblerFunc(func(context.Context) (*Result, error) {
		return result, err
	})
}

func TestNewCountries(t *testing.T) {
	c, err := NewCountries(context.Background(), staticAssembler(testResult(), nil), testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, []string{"United States", "Canada"}, c.Countries())
	assert.Equal(t, 1, c.DefaultSelection(), "default selection should point at Canada")
	assert.Equal(t, testNow, c.Timestamp())
	assert.Equal(t, testModified, c.LastModified())
	assert.Equal(t, SourceCache, c.Source())
	assert.Len(t, c.History(), 3)
	assert.Len(t, c.Dropped(), 1)
}

func TestNewCountriesWithoutDefault(t *testing.T) {
	result := testResult()
	delete(result.Records, "Canada")
	result.Countries = []string{"United States"}

	c, err := NewCountries(context.Background(), staticAssembler(result, nil), testNow)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrDefaultSelection), "wrong error %v", err)
}

func TestNewCountriesBuildFailure(t *testing.T) {
	c, err := NewCountries(context.Background(), staticAssembler(nil, ErrLiveFetch), testNow)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrLiveFetch))
}

func TestCountriesStale(t *testing.T) {
	now := testNow
	c, err := NewCountries(context.Background(), staticAssembler(testResult(), nil), testNow,
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	assert.False(t, c.Stale())

	now = testNow.Add(time.Hour)
	assert.False(t, c.Stale(), "exactly one hour is not stale")

	now = testNow.Add(time.Hour + time.Second)
	assert.True(t, c.Stale())
}

func TestCountriesRecord(t *testing.T) {
	c, err := NewCountries(context.Background(), staticAssembler(testResult(), nil), testNow)
	require.NoError(t, err)

	r, ok := c.Record("US")
	assert.True(t, ok)
	assert.Equal(t, "United States", r.Country)

	r, ok = c.Record(" Canada ")
	assert.True(t, ok)
	assert.Equal(t, 10000.0, r.NumHospitalBeds)

	_, ok = c.Record("Narnia")
	assert.False(t, ok)

	assert.Len(t, c.HistoryOf("US"), 2)
	assert.Len(t, c.HistoryOf("Narnia"), 0)
}

func TestCountriesListIsCopied(t *testing.T) {
	c, err := NewCountries(context.Background(), staticAssembler(testResult(), nil), testNow)
	require.NoError(t, err)

	countries := c.Countries()
	countries[0] = "Narnia"
	assert.Equal(t, "United States", c.Countries()[0])
}
