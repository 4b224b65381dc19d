package survival

import (
	"time"

	"gosurv/domain/clinical"
	"gosurv/domain/core"
)

// Record is one right-censored observation: how long the patient was
// followed and whether the event (death) was observed at that time.
type Record struct {
	Patient core.PatientID `json:"patient"`
	Time    float64        `json:"time"`
	Event   bool           `json:"event"`
	Marker  float64        `json:"marker"`
}

// Cohort is a named patient group produced by one marker predicate.
// Records are ordered by time ascending and the cohort is immutable once
// built for a test run.
type Cohort struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Size returns the number of records in the cohort.
func (c Cohort) Size() int { return len(c.Records) }

// EventCount returns the number of observed (uncensored) events.
func (c Cohort) EventCount() int {
	n := 0
	for _, r := range c.Records {
		if r.Event {
			n++
		}
	}
	return n
}

// MaxTime returns the largest observed time, censored tail included.
func (c Cohort) MaxTime() float64 {
	if len(c.Records) == 0 {
		return 0
	}
	return c.Records[len(c.Records)-1].Time
}

// CurvePoint is one Kaplan-Meier step: the distinct event time, the
// at-risk count just before it, the events at it, and the survival
// estimate just after it.
type CurvePoint struct {
	Time     float64 `json:"time"`
	AtRisk   int     `json:"at_risk"`
	Events   int     `json:"events"`
	Survival float64 `json:"survival"`
}

// Curve is a stepwise non-increasing survival function over [0, MaxTime],
// one point per distinct event time. An all-censored cohort yields zero
// points (S identically 1), which is valid.
type Curve struct {
	Cohort  string       `json:"cohort"`
	Points  []CurvePoint `json:"points"`
	MaxTime float64      `json:"max_time"`
}

// At evaluates the step function at time t: 1 before the first event time,
// the last applicable step estimate otherwise. The curve holds flat past
// its last event time.
func (c Curve) At(t float64) float64 {
	s := 1.0
	for _, p := range c.Points {
		if p.Time > t {
			break
		}
		s = p.Survival
	}
	return s
}

// TestResult is the outcome of one two-group log-rank comparison.
type TestResult struct {
	ChiSquare float64 `json:"chi_square"`
	PValue    float64 `json:"p_value"`
	SizeA     int     `json:"size_a"`
	SizeB     int     `json:"size_b"`
}

// OutcomeStatus tags how a marker's comparison ended.
type OutcomeStatus string

const (
	// StatusEvaluated means both curves and the test were computed.
	StatusEvaluated OutcomeStatus = "evaluated"
	// StatusSkipped means a group fell below the minimum size gate.
	StatusSkipped OutcomeStatus = "skipped"
	// StatusNotComputable means the log-rank variance was zero, so the
	// statistic is undefined for this marker.
	StatusNotComputable OutcomeStatus = "not_computable"
	// StatusInvalidMarker means the marker column was absent from the table.
	StatusInvalidMarker OutcomeStatus = "invalid_marker"
)

// MarkerOutcome is the per-marker unit of a batch result: exactly one of
// these exists per requested marker, tagged with its status.
type MarkerOutcome struct {
	Marker  clinical.MarkerKey `json:"marker"`
	Status  OutcomeStatus      `json:"status"`
	Test    *TestResult        `json:"test,omitempty"`
	CurveA  *Curve             `json:"curve_a,omitempty"`
	CurveB  *Curve             `json:"curve_b,omitempty"`
	SizeA   int                `json:"size_a"`
	SizeB   int                `json:"size_b"`
	Dropped int                `json:"dropped"`
	Reason  string             `json:"reason,omitempty"`
}

// Evaluated reports whether this marker produced a usable p-value.
func (o MarkerOutcome) Evaluated() bool {
	return o.Status == StatusEvaluated && o.Test != nil
}

// BatchResult aggregates one sweep over a marker list. Outcomes preserve
// the request order and contain every requested marker exactly once.
type BatchResult struct {
	SweepID      core.SweepID    `json:"sweep_id"`
	Dataset      string          `json:"dataset,omitempty"`
	Subtype      string          `json:"subtype,omitempty"`
	MinGroupSize int             `json:"min_group_size"`
	Patients     int             `json:"patients"`
	Outcomes     []MarkerOutcome `json:"outcomes"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
}

// SweepSummary is the list-view projection of a stored batch.
type SweepSummary struct {
	ID         core.SweepID `json:"id"`
	Dataset    string       `json:"dataset,omitempty"`
	Subtype    string       `json:"subtype,omitempty"`
	Patients   int          `json:"patients"`
	Markers    int          `json:"markers"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Summary projects the batch for sweep listings.
func (b *BatchResult) Summary() SweepSummary {
	return SweepSummary{
		ID:         b.SweepID,
		Dataset:    b.Dataset,
		Subtype:    b.Subtype,
		Patients:   b.Patients,
		Markers:    len(b.Outcomes),
		StartedAt:  b.StartedAt,
		FinishedAt: b.FinishedAt,
	}
}

// Outcome looks up the result for one marker.
func (b *BatchResult) Outcome(marker clinical.MarkerKey) (MarkerOutcome, bool) {
	for _, o := range b.Outcomes {
		if o.Marker == marker {
			return o, true
		}
	}
	return MarkerOutcome{}, false
}

// PValues returns marker -> p-value for evaluated markers only.
func (b *BatchResult) PValues() map[clinical.MarkerKey]float64 {
	out := make(map[clinical.MarkerKey]float64)
	for _, o := range b.Outcomes {
		if o.Evaluated() {
			out[o.Marker] = o.Test.PValue
		}
	}
	return out
}
