package consts

import "time"

const (
	// DefaultCountry is the country selected when the dashboard first loads.
	DefaultCountry = "Canada"

	// StaleAfter is how long an assembled country registry is considered fresh.
	StaleAfter = time.Hour

	// DiseaseDataObject is the cache object holding the encoded disease snapshot.
	DiseaseDataObject = "full_and_latest_disease_data_dict_pkl"

	// DefaultBucket is the S3 bucket of the disease snapshot cache.
	DefaultBucket = "coronavirus-calculator-data"

	// ReadableDateLayout renders e.g. "Sunday 30 November 2014, 13:05 UTC".
	ReadableDateLayout = "Monday 02 January 2006, 15:04 MST"
)

// Column names shared by the CSV sources.
const (
	CountryColumn    = "Country/Region"
	PopulationColumn = "Population"
	AgeGroupColumn   = "Age Group"
)
