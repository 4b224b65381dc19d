package app

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"gosurv/adapters/stats/surv"
	"gosurv/domain/clinical"
	"gosurv/domain/core"
	"gosurv/domain/survival"
)

// DefaultMinGroupSize is the policy floor for each cohort before a marker
// is worth testing.
const DefaultMinGroupSize = 5

// SweepOptions configures one batch run over a marker list.
type SweepOptions struct {
	// MinGroupSize gates each marker: both cohorts must reach this size.
	MinGroupSize int
	// Predicate splits patients into the two groups; GainPredicate when nil.
	Predicate surv.Predicate
	// Workers bounds concurrent marker evaluation; defaults to 4.
	Workers int
	// Dataset and Subtype are labels carried into the result for reporting.
	Dataset string
	Subtype string
}

// DefaultSweepOptions returns the standard policy settings.
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		MinGroupSize: DefaultMinGroupSize,
		Predicate:    surv.GainPredicate,
		Workers:      4,
	}
}

// SweepService runs the cohort-build / estimate / test pipeline across a
// marker list. The computation is pure: markers are independent and the
// same table and marker list always produce the same result.
type SweepService struct{}

// NewSweepService creates a sweep service.
func NewSweepService() *SweepService {
	return &SweepService{}
}

// RunSweep evaluates every marker against the (already subtype-filtered)
// patient table. Every requested marker appears exactly once in the
// result, tagged evaluated, skipped, not-computable, or invalid-marker;
// only a malformed invocation errs.
func (s *SweepService) RunSweep(ctx context.Context, table *clinical.PatientTable, markers []clinical.MarkerKey, opts SweepOptions) (*survival.BatchResult, error) {
	if table == nil {
		return nil, core.NewInvalidInputError("table", "must not be nil")
	}
	if len(markers) == 0 {
		return nil, core.NewInvalidInputError("markers", "must not be empty")
	}
	if opts.MinGroupSize < 1 {
		return nil, core.NewInvalidInputError("min_group_size", "must be positive")
	}
	if opts.Predicate == nil {
		opts.Predicate = surv.GainPredicate
	}
	if opts.Workers < 1 {
		opts.Workers = 4
	}

	batch := &survival.BatchResult{
		SweepID:      core.SweepID(core.NewID()),
		Dataset:      opts.Dataset,
		Subtype:      opts.Subtype,
		MinGroupSize: opts.MinGroupSize,
		Patients:     table.Len(),
		Outcomes:     make([]survival.MarkerOutcome, len(markers)),
		StartedAt:    time.Now().UTC(),
	}

	log.Printf("[Sweep] %s: %d markers over %d patients (min group size %d)",
		batch.SweepID, len(markers), table.Len(), opts.MinGroupSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, marker := range markers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch.Outcomes[i] = s.evaluateMarker(table, marker, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch.FinishedAt = time.Now().UTC()
	log.Printf("[Sweep] %s: done in %s (%d evaluated, %d skipped)",
		batch.SweepID, batch.FinishedAt.Sub(batch.StartedAt), countStatus(batch, survival.StatusEvaluated), countStatus(batch, survival.StatusSkipped))
	return batch, nil
}

// evaluateMarker runs the full pipeline for one marker. All failure modes
// fold into the outcome status; nothing here can fail the batch.
func (s *SweepService) evaluateMarker(table *clinical.PatientTable, marker clinical.MarkerKey, opts SweepOptions) survival.MarkerOutcome {
	outcome := survival.MarkerOutcome{Marker: marker}

	if !table.HasMarker(marker) {
		outcome.Status = survival.StatusInvalidMarker
		outcome.Reason = "marker column not present in dataset"
		return outcome
	}

	gain, noGain, dropped := surv.BuildCohorts(table.Rows(), marker, opts.Predicate)
	outcome.SizeA = gain.Size()
	outcome.SizeB = noGain.Size()
	outcome.Dropped = dropped

	if gain.Size() < opts.MinGroupSize || noGain.Size() < opts.MinGroupSize {
		outcome.Status = survival.StatusSkipped
		outcome.Reason = core.ErrInsufficientSample.Error()
		return outcome
	}

	curveA := surv.Estimate(gain)
	curveB := surv.Estimate(noGain)
	outcome.CurveA = &curveA
	outcome.CurveB = &curveB

	test, err := surv.Compare(gain, noGain)
	if err != nil {
		outcome.Status = survival.StatusNotComputable
		outcome.Reason = "log-rank variance is zero"
		return outcome
	}

	outcome.Status = survival.StatusEvaluated
	outcome.Test = &test
	return outcome
}

// MarkerDetail recomputes one marker's cohorts, curves, and descriptive
// summaries for plotting and reporting consumers.
type MarkerDetail struct {
	Marker   clinical.MarkerKey `json:"marker"`
	CurveA   survival.Curve     `json:"curve_a"`
	CurveB   survival.Curve     `json:"curve_b"`
	SummaryA surv.CohortSummary `json:"summary_a"`
	SummaryB surv.CohortSummary `json:"summary_b"`
	Dropped  int                `json:"dropped"`
}

// DescribeMarker builds the plotting payload for one marker column.
func (s *SweepService) DescribeMarker(table *clinical.PatientTable, marker clinical.MarkerKey, pred surv.Predicate) (*MarkerDetail, error) {
	if table == nil {
		return nil, core.NewInvalidInputError("table", "must not be nil")
	}
	if !table.HasMarker(marker) {
		return nil, core.NewMarkerNotFoundError(string(marker))
	}
	if pred == nil {
		pred = surv.GainPredicate
	}

	gain, noGain, dropped := surv.BuildCohorts(table.Rows(), marker, pred)
	curveA := surv.Estimate(gain)
	curveB := surv.Estimate(noGain)

	return &MarkerDetail{
		Marker:   marker,
		CurveA:   curveA,
		CurveB:   curveB,
		SummaryA: surv.Summarize(gain, curveA),
		SummaryB: surv.Summarize(noGain, curveB),
		Dropped:  dropped,
	}, nil
}

func countStatus(batch *survival.BatchResult, status survival.OutcomeStatus) int {
	n := 0
	for _, o := range batch.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
