package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/coronavirus-calculator/country"
	"github.com/bitmark-inc/coronavirus-calculator/epidemiology"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

var testStart = time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC)

type fakeAssembler struct {
	calls int
	err   error
}

func (f *fakeAssembler) Build(context.Context) (*country.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	day := time.Date(2020, 3, 30, 0, 0, 0, 0, time.UTC)
	return &country.Result{
		Records: map[string]schema.CountryRecord{
			"Canada":        {Country: "Canada", Confirmed: 50, Population: 2000000, LatestBedEstimate: 5, NumHospitalBeds: 10000},
			"United States": {Country: "United States", Confirmed: 100, Population: 1000000, LatestBedEstimate: 2, NumHospitalBeds: 2000},
		},
		Countries: []string{"Canada", "United States"},
		History: []schema.CaseRecord{
			{Date: day, Country: "Canada", Confirmed: 50},
			{Date: day.AddDate(0, 0, -1), Country: "United States", Confirmed: 99},
			{Date: day, Country: "United States", Confirmed: 100},
		},
		Dropped:      []schema.DroppedCountry{{Country: "Iceland", Reason: schema.DropNoBedEstimate}},
		LastModified: time.Date(2020, 3, 31, 8, 30, 0, 0, time.UTC),
		Source:       country.SourceCache,
	}, nil
}

type testServer struct {
	*Server
	assembler *fakeAssembler
	now       time.Time
	router    *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	ts := &testServer{assembler: &fakeAssembler{}, now: testStart}
	clock := func() time.Time { return ts.now }

	registry, err := country.NewCountries(context.Background(), ts.assembler, testStart, country.WithClock(clock))
	require.NoError(t, err)

	reference := ReferenceData{
		Constants: epidemiology.New([]schema.AgeGroup{{Group: "0-9", Proportion: 1, Mortality: 0.002}}),
		AgeData:   []schema.AgeGroup{{Group: "0-9", Proportion: 1, Mortality: 0.002}},
		Mortality: []schema.MortalityOutcome{{AgeGroup: "0-9", Outcome: schema.OutcomeHospitalization, Percentage: 0.001}},
	}
	ts.Server = NewServer(registry, ts.assembler, reference, tally.NoopScope, nil)
	ts.Server.clock = clock
	ts.router = ts.setupRouter()
	return ts
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestListCountries(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/api/countries")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Countries        []string                `json:"countries"`
		DefaultSelection int                     `json:"default_selection"`
		LastModified     string                  `json:"last_modified"`
		Source           string                  `json:"source"`
		Dropped          []schema.DroppedCountry `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Canada", "United States"}, resp.Countries)
	assert.Equal(t, 0, resp.DefaultSelection)
	assert.Equal(t, "Tuesday 31 March 2020, 08:30 UTC", resp.LastModified)
	assert.Equal(t, "cache", resp.Source)
	assert.Len(t, resp.Dropped, 1)
}

func TestCountryDetail(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/api/countries/Canada")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var record schema.CountryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, 10000.0, record.NumHospitalBeds)

	w = ts.get("/api/countries/US")
	assert.Equal(t, http.StatusOK, w.Code, "aliased lookup should succeed")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "United States", record.Country)

	w = ts.get("/api/countries/Narnia")
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, errorCountryNotFound, errResp)
}

func TestCountryHistory(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/api/countries/US/history")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var resp struct {
		Country string              `json:"country"`
		History []schema.CaseRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "United States", resp.Country)
	assert.Len(t, resp.History, 2)

	w = ts.get("/api/countries/Narnia/history")
	assert.Equal(t, http.StatusNotFound, w.Code, "wrong status code")
}

func TestReferenceData(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/api/constants")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	var constants epidemiology.Constants
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &constants))
	assert.Equal(t, 0.1, constants.RecoveryRate)
	assert.Equal(t, 15.0, constants.AverageDailyContacts.Default)

	w = ts.get("/api/age-data")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), `"group":"0-9"`)

	w = ts.get("/api/mortality-by-age")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), `"outcome":"Hospitalization"`)
}

func TestStaleRegistryIsReplaced(t *testing.T) {
	ts := newTestServer(t)
	first := ts.current().ID()

	ts.get("/api/countries")
	assert.Equal(t, 1, ts.assembler.calls, "fresh registry should not be rebuilt")

	ts.now = testStart.Add(time.Hour + time.Minute)
	w := ts.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, 2, ts.assembler.calls)

	second := ts.current().ID()
	assert.NotEqual(t, first, second)
	assert.False(t, ts.current().Stale())

	var resp struct {
		Registry string `json:"registry"`
		Stale    bool   `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, second, resp.Registry)
	assert.False(t, resp.Stale)
}

func TestStaleRegistryKeptOnRebuildFailure(t *testing.T) {
	ts := newTestServer(t)
	first := ts.current().ID()
	ts.assembler.err = errors.New("bucket unavailable")

	ts.now = testStart.Add(2 * time.Hour)
	w := ts.get("/api/countries/Canada")
	assert.Equal(t, http.StatusOK, w.Code, "stale registry should keep serving")
	assert.Equal(t, first, ts.current().ID())
	assert.Equal(t, 2, ts.assembler.calls)

	// no retry within the retry interval
	ts.now = ts.now.Add(30 * time.Second)
	ts.get("/api/countries")
	assert.Equal(t, 2, ts.assembler.calls)

	ts.assembler.err = nil
	ts.now = ts.now.Add(rebuildRetryInterval)
	ts.get("/api/countries")
	assert.Equal(t, 3, ts.assembler.calls)
	assert.NotEqual(t, first, ts.current().ID())
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, ts.get("/metrics").Code, "metrics route is optional")

	ts.metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("requests 1\n"))
	})
	ts.router = ts.setupRouter()

	w := ts.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Equal(t, "requests 1\n", w.Body.String())
}

func TestPanicRespondsInternalServerError(t *testing.T) {
	ts := newTestServer(t)
	ts.router.GET("/api/broken", func(c *gin.Context) {
		panic("broken handler")
	})

	w := ts.get("/api/broken")
	assert.Equal(t, http.StatusInternalServerError, w.Code, "wrong status code")

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, errorInternalServer, errResp)
}

func TestCorsConfig(t *testing.T) {
	config := corsConfig(nil)
	assert.True(t, config.AllowAllOrigins)

	config = corsConfig([]string{"https://calculator.example.org"})
	assert.False(t, config.AllowAllOrigins)
	assert.Equal(t, []string{"https://calculator.example.org"}, config.AllowOrigins)
}
