// Package epidemiology holds the default parameters of the SIR model and the health care
// capacity estimates. Sources for the ranges are collected in the modelling notes.
package epidemiology

import (
	"fmt"
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

const (
	// recovery period around 10 days
	defaultRecoveryRate = 1.0 / 10

	// death rate of critically ill patients without a hospital bed, the max reported from Wuhan
	defaultCriticalDeathRate = 0.122

	// 14 contacts per day, 10 infectious days and 2.5 people infected on average in Wuhan
	defaultTransmissionRatePerContact = 0.018

	// proportion of true cases diagnosed
	defaultReportingRate = 0.14

	// share of reported cases requiring hospitalization
	reportedHospitalizationRate = 0.19
)

var ErrInvalidContacts = fmt.Errorf("average daily contacts default out of range")

// Range is a bounded parameter with a default value.
type Range struct {
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
}

// Constants are the process wide model parameters. Build them once with New.
type Constants struct {
	RecoveryRate               float64 `json:"recovery_rate"`
	MortalityRate              float64 `json:"mortality_rate"`
	CriticalDeathRate          float64 `json:"critical_death_rate"`
	TransmissionRatePerContact float64 `json:"transmission_rate_per_contact"`
	AverageDailyContacts       Range   `json:"average_daily_contacts"`
	ReportingRate              float64 `json:"reporting_rate"`
	HospitalizationRate        float64 `json:"hospitalization_rate"`
}

// New returns the default constants. The mortality rate is the average of the age group
// mortality weighted by population share, assuming every age group is equally likely to
// get infected.
func New(ages []schema.AgeGroup) Constants {
	return Constants{
		RecoveryRate:               defaultRecoveryRate,
		MortalityRate:              WeightedMortality(ages),
		CriticalDeathRate:          defaultCriticalDeathRate,
		TransmissionRatePerContact: defaultTransmissionRatePerContact,
		AverageDailyContacts:       Range{Min: 0, Max: 50, Default: 15},
		ReportingRate:              defaultReportingRate,
		HospitalizationRate:        hospitalizationRate(defaultReportingRate),
	}
}

// WeightedMortality is the sum of proportion * mortality over all age groups.
func WeightedMortality(ages []schema.AgeGroup) float64 {
	total := 0.0
	for _, a := range ages {
		total += a.Proportion * a.Mortality
	}
	return total
}

// The source estimated hospitalization from reported cases while the model works on total
// cases, hence the scaling by the reporting rate.
func hospitalizationRate(reportingRate float64) float64 {
	return reportedHospitalizationRate * reportingRate
}

type overrides struct {
	RecoveryRate               *float64 `yaml:"recovery_rate"`
	MortalityRate              *float64 `yaml:"mortality_rate"`
	CriticalDeathRate          *float64 `yaml:"critical_death_rate"`
	TransmissionRatePerContact *float64 `yaml:"transmission_rate_per_contact"`
	AverageDailyContacts       *Range   `yaml:"average_daily_contacts"`
	ReportingRate              *float64 `yaml:"reporting_rate"`
}

// WithOverrides returns a copy of c with the values set in a YAML document replaced.
// The hospitalization rate follows the reporting rate.
func (c Constants) WithOverrides(r io.Reader) (Constants, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return c, err
	}

	var o overrides
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return c, err
	}

	for _, v := range []struct {
		from *float64
		to   *float64
	}{
		{o.RecoveryRate, &c.RecoveryRate},
		{o.MortalityRate, &c.MortalityRate},
		{o.CriticalDeathRate, &c.CriticalDeathRate},
		{o.TransmissionRatePerContact, &c.TransmissionRatePerContact},
		{o.ReportingRate, &c.ReportingRate},
	} {
		if v.from != nil {
			*v.to = *v.from
		}
	}
	if o.AverageDailyContacts != nil {
		c.AverageDailyContacts = *o.AverageDailyContacts
	}
	c.HospitalizationRate = hospitalizationRate(c.ReportingRate)

	contacts := c.AverageDailyContacts
	if contacts.Default < contacts.Min || contacts.Default > contacts.Max {
		return c, fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidContacts, contacts.Default, contacts.Min, contacts.Max)
	}
	return c, nil
}
