package country

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

// Assembler - builds the country data of a registry
type Assembler interface {
	Build(ctx context.Context) (*Result, error)
}

// AssemblerFunc adapts a function to Assembler.
type AssemblerFunc func(ctx context.Context) (*Result, error)

func (f AssemblerFunc) Build(ctx context.Context) (*Result, error) {
	return f(ctx)
}

// Countries is an immutable snapshot of the assembled country data. Once Stale it should
// be discarded and a new one constructed; it never refreshes itself.
type Countries struct {
	id               string
	records          map[string]schema.CountryRecord
	countries        []string
	history          []schema.CaseRecord
	dropped          []schema.DroppedCountry
	source           Source
	lastModified     time.Time
	defaultSelection int
	timestamp        time.Time
	clock            func() time.Time
}

type Option func(*Countries)

// WithClock replaces the wall clock used by Stale.
func WithClock(clock func() time.Time) Option {
	return func(c *Countries) {
		c.clock = clock
	}
}

// NewCountries builds the country data once. It fails when the default country is not
// part of the assembled data.
func NewCountries(ctx context.Context, a Assembler, timestamp time.Time, opts ...Option) (*Countries, error) {
	result, err := a.Build(ctx)
	if err != nil {
		return nil, err
	}

	defaultSelection := -1
	for i, country := range result.Countries {
		if country == consts.DefaultCountry {
			defaultSelection = i
			break
		}
	}
	if defaultSelection < 0 {
		return nil, fmt.Errorf("%w: %s", ErrDefaultSelection, consts.DefaultCountry)
	}

	c := &Countries{
		id:               uuid.New().String(),
		records:          result.Records,
		countries:        result.Countries,
		history:          result.History,
		dropped:          result.Dropped,
		source:           result.Source,
		lastModified:     result.LastModified,
		defaultSelection: defaultSelection,
		timestamp:        timestamp,
		clock:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	log.WithFields(logrus.Fields{"id": c.id, "countries": len(c.countries)}).Info("country registry created")
	return c, nil
}

// Stale reports whether more than consts.StaleAfter passed since the registry timestamp.
func (c *Countries) Stale() bool {
	return c.clock().Sub(c.timestamp) > consts.StaleAfter
}

func (c *Countries) ID() string {
	return c.id
}

// Countries returns the selectable country names in display order.
func (c *Countries) Countries() []string {
	countries := make([]string, len(c.countries))
	copy(countries, c.countries)
	return countries
}

func (c *Countries) DefaultSelection() int {
	return c.defaultSelection
}

// Record looks up a country by name, source aliases such as "US" are accepted.
func (c *Countries) Record(name string) (schema.CountryRecord, bool) {
	r, ok := c.records[consts.DiseaseCountryAlias.Apply(name)]
	return r, ok
}

// History returns the full historical table. The slice is shared and must not be modified.
func (c *Countries) History() []schema.CaseRecord {
	return c.history
}

// HistoryOf returns the historical rows of one country.
func (c *Countries) HistoryOf(name string) []schema.CaseRecord {
	country := consts.DiseaseCountryAlias.Apply(name)
	rows := make([]schema.CaseRecord, 0)
	for _, row := range c.history {
		if row.Country == country {
			rows = append(rows, row)
		}
	}
	return rows
}

func (c *Countries) Dropped() []schema.DroppedCountry {
	return c.dropped
}

func (c *Countries) Source() Source {
	return c.source
}

func (c *Countries) LastModified() time.Time {
	return c.lastModified
}

func (c *Countries) Timestamp() time.Time {
	return c.timestamp
}
