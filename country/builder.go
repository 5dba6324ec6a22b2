package country

//go:generate mockgen -destination=../mocks/country.go -package=mocks github.com/bitmark-inc/coronavirus-calculator/country SnapshotCache,LiveFetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/external/s3cache"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
	"github.com/bitmark-inc/coronavirus-calculator/snapshot"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "country")
}

// SnapshotCache - read access to the disease snapshot cache
type SnapshotCache interface {
	Download(ctx context.Context, objectName string) (*schema.CachedBlob, error)
}

// LiveFetcher - the live disease data source
type LiveFetcher interface {
	Fetch(ctx context.Context) (*schema.DiseaseSnapshot, error)
}

type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
)

// Result is the assembled country data of one snapshot.
type Result struct {
	Records      map[string]schema.CountryRecord
	Countries    []string
	LastModified time.Time
	History      []schema.CaseRecord
	Dropped      []schema.DroppedCountry
	Source       Source
}

// Builder assembles country records from the disease snapshot, the demographic table and
// the bed estimates.
type Builder struct {
	cache        SnapshotCache
	fetcher      LiveFetcher
	demographics []schema.Demographics
	beds         schema.BedTable

	// Object is the cache object holding the snapshot.
	Object string

	// FallbackOnCacheError makes a cache transport failure or an undecodable cache
	// object fall back to the live source instead of failing the build.
	FallbackOnCacheError bool

	Scope tally.Scope
	Now   func() time.Time
}

// NewBuilder returns a builder reading consts.DiseaseDataObject, falling back to the live
// source on cache failures.
func NewBuilder(cache SnapshotCache, fetcher LiveFetcher, demographics []schema.Demographics, beds schema.BedTable) *Builder {
	return &Builder{
		cache:                cache,
		fetcher:              fetcher,
		demographics:         demographics,
		beds:                 beds,
		Object:               consts.DiseaseDataObject,
		FallbackOnCacheError: true,
		Scope:                tally.NoopScope,
		Now:                  time.Now,
	}
}

// Build reads the snapshot from the cache, or from the live source when the cache is
// empty, and joins it with the demographic and bed tables.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	sw := b.Scope.Timer("build_duration").Start()
	defer sw.Stop()

	s, lastModified, source, err := b.load(ctx)
	if err != nil {
		b.Scope.Counter("build_failure").Inc(1)
		return nil, err
	}

	result, err := b.assemble(s)
	if err != nil {
		b.Scope.Counter("build_failure").Inc(1)
		return nil, err
	}
	result.LastModified = lastModified
	result.Source = source

	b.Scope.Gauge("countries").Update(float64(len(result.Countries)))
	b.Scope.Gauge("dropped_countries").Update(float64(len(result.Dropped)))
	log.WithFields(logrus.Fields{
		"source":        source,
		"countries":     len(result.Countries),
		"dropped":       len(result.Dropped),
		"last_modified": lastModified.Format(consts.ReadableDateLayout),
	}).Info("country data assembled")

	return result, nil
}

func (b *Builder) load(ctx context.Context) (*schema.DiseaseSnapshot, time.Time, Source, error) {
	blob, err := b.cache.Download(ctx, b.Object)
	if err == nil {
		var data []byte
		if blob != nil {
			data = blob.Data
		}
		s, decodeErr := snapshot.Decode(data)
		if decodeErr == nil {
			b.Scope.Counter("cache_found").Inc(1)
			return s, blob.LastModified, SourceCache, nil
		}
		err = decodeErr
	}

	if errors.Is(err, s3cache.ErrNotFound) {
		b.Scope.Counter("cache_miss").Inc(1)
		log.WithField("object", b.Object).Info("cache miss, fetching live data")
		return b.fetch(ctx)
	}

	b.Scope.Counter("cache_error").Inc(1)
	if !b.FallbackOnCacheError {
		return nil, time.Time{}, "", fmt.Errorf("%w: %w", ErrCacheTransport, err)
	}
	log.WithFields(logrus.Fields{"object": b.Object, "error": err}).Warn("cache unavailable, fetching live data")
	return b.fetch(ctx)
}

func (b *Builder) fetch(ctx context.Context) (*schema.DiseaseSnapshot, time.Time, Source, error) {
	s, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return nil, time.Time{}, "", fmt.Errorf("%w: %w", ErrLiveFetch, err)
	}
	if s == nil || len(s.LatestTable) == 0 {
		return nil, time.Time{}, "", fmt.Errorf("%w: empty latest table", ErrLiveFetch)
	}
	return s, b.Now(), SourceLive, nil
}

func (b *Builder) assemble(s *schema.DiseaseSnapshot) (*Result, error) {
	alias := consts.DiseaseCountryAlias
	result := &Result{Records: make(map[string]schema.CountryRecord)}
	drop := func(country string, reason schema.DropReason) {
		result.Dropped = append(result.Dropped, schema.DroppedCountry{Country: country, Reason: reason})
		log.WithFields(logrus.Fields{"country": country, "reason": reason}).Debug("country dropped")
	}

	// every table is aliased before any join
	result.History = make([]schema.CaseRecord, len(s.FullTable))
	historical := make(map[string]bool)
	for i, row := range s.FullTable {
		row.Country = alias.Apply(row.Country)
		result.History[i] = row
		historical[row.Country] = true
	}

	latest := make(map[string]schema.CaseRecord, len(s.LatestTable))
	latestOrder := make([]string, 0, len(s.LatestTable))
	for _, row := range s.LatestTable {
		row.Country = alias.Apply(row.Country)
		if _, ok := latest[row.Country]; ok {
			drop(row.Country, schema.DropDuplicate)
			continue
		}
		latest[row.Country] = row
		latestOrder = append(latestOrder, row.Country)
	}

	var missing []string
	for _, country := range latestOrder {
		if !historical[country] {
			missing = append(missing, country)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &JoinConsistencyError{Missing: missing}
	}

	demographics := make(map[string]schema.Demographics, len(b.demographics))
	demographicOrder := make([]string, 0, len(b.demographics))
	for _, row := range b.demographics {
		row.Country = alias.Apply(row.Country)
		if _, ok := demographics[row.Country]; ok {
			continue
		}
		demographics[row.Country] = row
		demographicOrder = append(demographicOrder, row.Country)
	}

	// beds are reported per 1000 people
	estimates := make(map[string]float64, len(b.beds.Estimates))
	hospitalBeds := make(map[string]float64, len(b.beds.Estimates))
	for country, estimate := range b.beds.Estimates {
		country = alias.Apply(country)
		estimates[country] = estimate
		if d, ok := demographics[country]; ok {
			hospitalBeds[country] = HospitalBeds(estimate, d.Population)
		}
	}

	for _, country := range latestOrder {
		d, ok := demographics[country]
		if !ok {
			drop(country, schema.DropNoDemographics)
			continue
		}
		beds, ok := hospitalBeds[country]
		if !ok {
			drop(country, schema.DropNoBedEstimate)
			continue
		}

		row := latest[country]
		attributes := make(map[string]float64, len(d.Attributes))
		for k, v := range d.Attributes {
			attributes[k] = v
		}
		result.Records[country] = schema.CountryRecord{
			Country:           country,
			Confirmed:         row.Confirmed,
			Deaths:            row.Deaths,
			Recovered:         row.Recovered,
			Active:            row.Active,
			Population:        d.Population,
			Demographics:      attributes,
			LatestBedEstimate: estimates[country],
			NumHospitalBeds:   beds,
		}
		result.Countries = append(result.Countries, country)
	}

	for _, country := range demographicOrder {
		if _, ok := latest[country]; !ok {
			drop(country, schema.DropNoCaseData)
		}
	}

	return result, nil
}

// HospitalBeds converts an estimate of beds per 1000 people into an absolute count.
func HospitalBeds(estimatePer1000, population float64) float64 {
	return estimatePer1000 * population / 1000
}
