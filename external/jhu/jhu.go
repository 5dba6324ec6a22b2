package jhu

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	logPrefix = "jhu"

	// DefaultURL is the JHU CSSE global time series directory.
	DefaultURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series"

	confirmedFile = "time_series_covid19_confirmed_global.csv"
	deathsFile    = "time_series_covid19_deaths_global.csv"
	recoveredFile = "time_series_covid19_recovered_global.csv"

	dateLayout = "1/2/06"
)

var (
	ErrResponseStatus = fmt.Errorf("response status not ok")
	ErrNoCountry      = fmt.Errorf("time series without country column")
	ErrNoDates        = fmt.Errorf("time series without dates")
)

// Fetcher - interface to download a disease data snapshot
type Fetcher interface {
	Fetch(ctx context.Context) (*schema.DiseaseSnapshot, error)
}

type jhu struct {
	url    string
	client *http.Client
}

// series holds cumulative counts per country per date, provinces summed up
type series struct {
	dates     []time.Time
	countries []string
	counts    map[string]map[time.Time]float64
}

func (j jhu) Fetch(ctx context.Context) (*schema.DiseaseSnapshot, error) {
	confirmed, err := j.series(ctx, confirmedFile)
	if err != nil {
		return nil, err
	}
	deaths, err := j.series(ctx, deathsFile)
	if err != nil {
		return nil, err
	}
	recovered, err := j.series(ctx, recoveredFile)
	if err != nil {
		return nil, err
	}

	snapshot := &schema.DiseaseSnapshot{
		FullTable:   make([]schema.CaseRecord, 0, len(confirmed.countries)*len(confirmed.dates)),
		LatestTable: make([]schema.CaseRecord, 0, len(confirmed.countries)),
		FetchedAt:   time.Now().UTC(),
	}
	for _, country := range confirmed.countries {
		var row schema.CaseRecord
		for _, date := range confirmed.dates {
			row = schema.CaseRecord{
				Date:      date,
				Country:   country,
				Confirmed: confirmed.counts[country][date],
				Deaths:    deaths.counts[country][date],
				Recovered: recovered.counts[country][date],
			}
			row.Active = row.Confirmed - row.Deaths - row.Recovered
			snapshot.FullTable = append(snapshot.FullTable, row)
		}
		snapshot.LatestTable = append(snapshot.LatestTable, row)
	}

	log.WithFields(log.Fields{
		"prefix":    logPrefix,
		"countries": len(snapshot.LatestTable),
		"rows":      len(snapshot.FullTable),
	}).Info("fetched disease data")

	return snapshot, nil
}

func (j jhu) series(ctx context.Context, file string) (*series, error) {
	data, err := j.get(ctx, j.url+"/"+file)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrNoCountry)
	}

	header := records[0]
	countryColumn := -1
	dateColumns := map[int]time.Time{}
	s := &series{counts: map[string]map[time.Time]float64{}}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == consts.CountryColumn {
			countryColumn = i
			continue
		}
		if d, err := time.Parse(dateLayout, name); err == nil {
			dateColumns[i] = d
			s.dates = append(s.dates, d)
		}
	}
	if countryColumn < 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrNoCountry)
	}
	if len(s.dates) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrNoDates)
	}

	for n, record := range records[1:] {
		if countryColumn >= len(record) {
			continue
		}
		country := consts.CanonicalCountry(record[countryColumn])
		if _, ok := s.counts[country]; !ok {
			s.counts[country] = map[time.Time]float64{}
			s.countries = append(s.countries, country)
		}
		for i, date := range dateColumns {
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %s: %w", file, n+2, header[i], err)
			}
			s.counts[country][date] += v
		}
	}
	return s, nil
}

func (j jhu) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := j.client.Do(req)
	if nil != err {
		log.WithFields(log.Fields{"prefix": logPrefix, "url": url, "error": err}).Error("get time series")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"prefix": logPrefix, "url": url, "status": resp.StatusCode}).Error("get time series")
		return nil, fmt.Errorf("%w: %d", ErrResponseStatus, resp.StatusCode)
	}

	data, err := ioutil.ReadAll(resp.Body)
	if nil != err {
		log.WithFields(log.Fields{"prefix": logPrefix, "error": err}).Error("read time series response")
		return nil, err
	}
	return data, nil
}

// New - new JHU time series fetcher, an empty url means DefaultURL
func New(url string, client *http.Client) Fetcher {
	u := DefaultURL
	if url != "" {
		u = strings.TrimSuffix(url, "/")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &jhu{
		url:    u,
		client: client,
	}
}
