// Package testkit builds synthetic clinical tables for tests: small
// hand-written scenarios with known statistics plus seeded random cohorts.
package testkit

import (
	"fmt"
	"math/rand"

	"gosurv/domain/clinical"
	"gosurv/domain/core"
)

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

// Row assembles one patient row with a single marker column.
func Row(patient string, marker clinical.MarkerKey, markerValue, days *float64, event *bool) clinical.PatientRow {
	return clinical.PatientRow{
		Patient:      core.PatientID(patient),
		SurvivalDays: days,
		Event:        event,
		Markers:      map[clinical.MarkerKey]*float64{marker: markerValue},
	}
}

// TwoGroupScenario returns the six-patient table behind the engine's
// reference numbers: gain events at days 10 and 20 (censored 30), no-gain
// events at days 5 and 15 (censored 25), split on marker "EGFR".
func TwoGroupScenario() *clinical.PatientTable {
	rows := []clinical.PatientRow{
		Row("GA1", "EGFR", fptr(1), fptr(10), bptr(true)),
		Row("GA2", "EGFR", fptr(2), fptr(20), bptr(true)),
		Row("GA3", "EGFR", fptr(1), fptr(30), bptr(false)),
		Row("NG1", "EGFR", fptr(0), fptr(5), bptr(true)),
		Row("NG2", "EGFR", fptr(0), fptr(15), bptr(true)),
		Row("NG3", "EGFR", fptr(0), fptr(25), bptr(false)),
	}
	return clinical.NewPatientTable(rows)
}

// SyntheticConfig controls random table generation.
type SyntheticConfig struct {
	Patients    int
	Markers     []clinical.MarkerKey
	GainRate    float64 // probability a marker value is a gain (value 1 or 2)
	EventRate   float64 // probability the event was observed
	MissingRate float64 // probability a marker value is missing
	Subtype     string
	Seed        int64
}

// DefaultSyntheticConfig returns a mid-sized reproducible table.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Patients:    120,
		Markers:     []clinical.MarkerKey{"EGFR", "MYC", "CDK4"},
		GainRate:    0.4,
		EventRate:   0.6,
		MissingRate: 0.05,
		Subtype:     "Proneural",
		Seed:        42,
	}
}

// Synthetic generates a seeded random patient table. The same config
// always yields the same table.
func Synthetic(cfg SyntheticConfig) *clinical.PatientTable {
	rng := rand.New(rand.NewSource(cfg.Seed))

	rows := make([]clinical.PatientRow, 0, cfg.Patients)
	for i := 0; i < cfg.Patients; i++ {
		markers := make(map[clinical.MarkerKey]*float64, len(cfg.Markers))
		for _, m := range cfg.Markers {
			if rng.Float64() < cfg.MissingRate {
				markers[m] = nil
				continue
			}
			v := 0.0
			if rng.Float64() < cfg.GainRate {
				v = float64(1 + rng.Intn(2))
			}
			markers[m] = &v
		}

		days := 30 + rng.ExpFloat64()*400
		rows = append(rows, clinical.PatientRow{
			Patient:      core.PatientID(fmt.Sprintf("TCGA-SYN-%04d", i)),
			Subtype:      cfg.Subtype,
			SurvivalDays: &days,
			Event:        bptr(rng.Float64() < cfg.EventRate),
			Markers:      markers,
		})
	}

	return clinical.NewPatientTable(rows)
}
