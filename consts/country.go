package consts

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Alias maps a source-specific country name to the name used across all tables.
type Alias map[string]string

// DiseaseCountryAlias aligns the case-data feed and the demographic table with the bed data.
var DiseaseCountryAlias = Alias{
	"US": "United States",
}

// BedCountryAlias aligns World Bank names with the demographic and disease tables.
var BedCountryAlias = Alias{
	"Iran, Islamic Rep.": "Iran",
	"Korea, Rep.":        "Korea, South",
	"Russian Federation": "Russia",
	"Egypt, Arab Rep.":   "Egypt",
	"Slovak Republic":    "Slovakia",
	"Congo, Dem. Rep.":   "Congo (Kinshasa)",
}

// Apply returns the aliased and canonical form of name. Unmapped names pass through.
func (a Alias) Apply(name string) string {
	key := CanonicalCountry(name)
	if to, ok := a[key]; ok {
		return CanonicalCountry(to)
	}
	return key
}

// CanonicalCountry trims surrounding space and normalizes the name to NFC so that
// differently composed unicode names compare equal.
func CanonicalCountry(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
