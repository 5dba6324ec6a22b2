package schema

// Demographics is one row of the demographic table. Population is required,
// every other numeric column of the source is kept in Attributes.
type Demographics struct {
	Country    string             `json:"country"`
	Population float64            `json:"population"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
}

// BedTable holds the latest hospital-bed estimate (beds per 1000 people) per country.
// Countries which never reported a positive value are listed in Undefined.
type BedTable struct {
	Estimates map[string]float64
	Order     []string
	Undefined []string
}

// Estimate returns the latest bed estimate of a country, ok is false when there is none.
func (b BedTable) Estimate(country string) (float64, bool) {
	v, ok := b.Estimates[country]
	return v, ok
}

// CountryRecord is the assembled reference data of one country.
type CountryRecord struct {
	Country           string             `json:"country"`
	Confirmed         float64            `json:"confirmed"`
	Deaths            float64            `json:"deaths"`
	Recovered         float64            `json:"recovered"`
	Active            float64            `json:"active"`
	Population        float64            `json:"population"`
	Demographics      map[string]float64 `json:"demographics,omitempty"`
	LatestBedEstimate float64            `json:"latest_bed_estimate"`
	NumHospitalBeds   float64            `json:"num_hospital_beds"`
}

type DropReason string

const (
	DropNoDemographics DropReason = "no demographic data"
	DropNoCaseData     DropReason = "no case data"
	DropNoBedEstimate  DropReason = "no bed estimate"
	DropDuplicate      DropReason = "duplicate row"
)

// DroppedCountry records a country removed while joining the source tables.
type DroppedCountry struct {
	Country string     `json:"country"`
	Reason  DropReason `json:"reason"`
}
