package schema

// AgeGroup is the share of the population and infection mortality of one age group.
type AgeGroup struct {
	Group      string  `json:"group" yaml:"group"`
	Proportion float64 `json:"proportion" yaml:"proportion"`
	Mortality  float64 `json:"mortality" yaml:"mortality"`
}

type Outcome string

const (
	OutcomeHospitalization   Outcome = "Hospitalization"
	OutcomeCriticalCare      Outcome = "Critical Care"
	OutcomeInfectionFatality Outcome = "Infection Fatality"
	OutcomeMildInfection     Outcome = "Mild Infection"
)

// MortalityOutcome is the percentage of infections in an age group ending in an outcome.
type MortalityOutcome struct {
	AgeGroup   string  `json:"age_group"`
	Outcome    Outcome `json:"outcome"`
	Percentage float64 `json:"percentage"`
}
