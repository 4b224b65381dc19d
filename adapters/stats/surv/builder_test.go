package surv

import (
	"math"
	"testing"

	"gosurv/domain/clinical"
	"gosurv/domain/core"
)

func f(v float64) *float64 { return &v }
func bp(v bool) *bool      { return &v }

func row(patient string, marker *float64, days *float64, event *bool) clinical.PatientRow {
	return clinical.PatientRow{
		Patient:      core.PatientID(patient),
		SurvivalDays: days,
		Event:        event,
		Markers:      map[clinical.MarkerKey]*float64{"EGFR": marker},
	}
}

func TestBuildCohorts_SplitsByPredicate(t *testing.T) {
	rows := []clinical.PatientRow{
		row("P1", f(2), f(100), bp(true)),
		row("P2", f(0), f(200), bp(false)),
		row("P3", f(1), f(50), bp(true)),
		row("P4", f(-1), f(300), bp(false)),
	}

	gain, noGain, dropped := BuildCohorts(rows, "EGFR", GainPredicate)

	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if gain.Size() != 2 || noGain.Size() != 2 {
		t.Fatalf("expected sizes (2,2), got (%d,%d)", gain.Size(), noGain.Size())
	}
	// Sorted by time ascending.
	if gain.Records[0].Patient != "P3" || gain.Records[1].Patient != "P1" {
		t.Fatalf("gain cohort not time-sorted: %+v", gain.Records)
	}
}

func TestBuildCohorts_DropsRowsWithMissingFields(t *testing.T) {
	rows := []clinical.PatientRow{
		row("P1", f(1), f(100), bp(true)),       // kept
		row("P2", nil, f(100), bp(true)),        // missing marker
		row("P3", f(1), nil, bp(true)),          // missing time
		row("P4", f(1), f(100), nil),            // missing event
		row("P5", f(math.NaN()), f(10), bp(true)), // marker failed coercion
		row("P6", f(1), f(-5), bp(false)),       // negative time
	}

	gain, noGain, dropped := BuildCohorts(rows, "EGFR", GainPredicate)

	if dropped != 5 {
		t.Fatalf("expected 5 dropped rows, got %d", dropped)
	}
	if gain.Size()+noGain.Size() != 1 {
		t.Fatalf("expected one surviving record, got %d", gain.Size()+noGain.Size())
	}
	if gain.Records[0].Patient != "P1" {
		t.Fatalf("expected P1 kept, got %+v", gain.Records[0])
	}
}

func TestBuildCohorts_EmptyCohortIsValid(t *testing.T) {
	rows := []clinical.PatientRow{
		row("P1", f(3), f(100), bp(true)),
		row("P2", f(1), f(200), bp(false)),
	}

	gain, noGain, _ := BuildCohorts(rows, "EGFR", GainPredicate)

	if gain.Size() != 2 {
		t.Fatalf("expected both rows in gain, got %d", gain.Size())
	}
	if noGain.Size() != 0 {
		t.Fatalf("expected empty no-gain cohort, got %d", noGain.Size())
	}
	if noGain.Name != GroupNoGain {
		t.Fatalf("empty cohort should keep its name, got %q", noGain.Name)
	}
}

func TestBuildCohorts_MarkerAbsentFromRowDrops(t *testing.T) {
	rows := []clinical.PatientRow{
		{Patient: "P1", SurvivalDays: f(10), Event: bp(true)}, // no marker map at all
		row("P2", f(1), f(20), bp(true)),
	}

	gain, noGain, dropped := BuildCohorts(rows, "EGFR", GainPredicate)

	if dropped != 1 {
		t.Fatalf("expected 1 drop for row without marker map, got %d", dropped)
	}
	if gain.Size()+noGain.Size() != 1 {
		t.Fatalf("expected one record total, got %d", gain.Size()+noGain.Size())
	}
}
