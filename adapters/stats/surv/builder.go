package surv

import (
	"math"
	"sort"

	"gosurv/domain/clinical"
	"gosurv/domain/survival"
)

// Predicate classifies one coerced marker value into group A (true) or
// group B (false).
type Predicate func(value float64) bool

// GainPredicate is the default copy-number split: any value above zero
// counts as a gain.
func GainPredicate(value float64) bool {
	return value > 0
}

// Cohort group names used across the engine and reports.
const (
	GroupGain   = "Gain"
	GroupNoGain = "No Gain"
)

// BuildCohorts splits patient rows into two disjoint cohorts by one marker
// predicate. A row is dropped (counted, not erred) when its marker value,
// survival time, or event indicator is missing or unusable; no imputation
// is ever attempted. Empty cohorts are valid output, gated by the caller.
func BuildCohorts(rows []clinical.PatientRow, marker clinical.MarkerKey, pred Predicate) (gain, noGain survival.Cohort, dropped int) {
	gain = survival.Cohort{Name: GroupGain}
	noGain = survival.Cohort{Name: GroupNoGain}

	for _, row := range rows {
		value := row.Marker(marker)
		if value == nil || math.IsNaN(*value) {
			dropped++
			continue
		}
		if row.SurvivalDays == nil || math.IsNaN(*row.SurvivalDays) || *row.SurvivalDays < 0 {
			dropped++
			continue
		}
		if row.Event == nil {
			dropped++
			continue
		}

		rec := survival.Record{
			Patient: row.Patient,
			Time:    *row.SurvivalDays,
			Event:   *row.Event,
			Marker:  *value,
		}
		if pred(*value) {
			gain.Records = append(gain.Records, rec)
		} else {
			noGain.Records = append(noGain.Records, rec)
		}
	}

	sortCohort(&gain)
	sortCohort(&noGain)
	return gain, noGain, dropped
}

// sortCohort orders records by time ascending, patient key as tiebreaker
// so cohort construction is deterministic across runs.
func sortCohort(c *survival.Cohort) {
	sort.Slice(c.Records, func(i, j int) bool {
		if c.Records[i].Time != c.Records[j].Time {
			return c.Records[i].Time < c.Records[j].Time
		}
		return c.Records[i].Patient < c.Records[j].Patient
	})
}
