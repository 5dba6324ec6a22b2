package schema

import "time"

// CaseRecord is one row of the case-data feed for a country on a date.
type CaseRecord struct {
	Date      time.Time `json:"date" msgpack:"date"`
	Country   string    `json:"country" msgpack:"country"`
	Confirmed float64   `json:"confirmed" msgpack:"confirmed"`
	Deaths    float64   `json:"deaths" msgpack:"deaths"`
	Recovered float64   `json:"recovered" msgpack:"recovered"`
	Active    float64   `json:"active" msgpack:"active"`
}

// DiseaseSnapshot is one fetched or cached instance of the case-data feed.
// FullTable holds every (country, date) row, LatestTable the most recent row per country.
type DiseaseSnapshot struct {
	FullTable   []CaseRecord `json:"full_table" msgpack:"full_table"`
	LatestTable []CaseRecord `json:"latest_table" msgpack:"latest_table"`
	FetchedAt   time.Time    `json:"fetched_at" msgpack:"fetched_at"`
}

// CachedBlob is the raw content of a cache object and its server reported modification time.
type CachedBlob struct {
	Data         []byte
	LastModified time.Time
}
