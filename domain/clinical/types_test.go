package clinical

import (
	"testing"

	"gosurv/domain/core"
)

func val(v float64) *float64 { return &v }

func tableFixture() *PatientTable {
	rows := []PatientRow{
		{Patient: "P1", Subtype: "Proneural", Markers: map[MarkerKey]*float64{"EGFR": val(2), "MYC": val(0)}},
		{Patient: "P2", Subtype: "Mesenchymal", Markers: map[MarkerKey]*float64{"EGFR": nil, "MYC": val(1)}},
		{Patient: "P3", Subtype: "proneural ", Markers: map[MarkerKey]*float64{"EGFR": val(0)}},
	}
	return NewPatientTable(rows)
}

func TestColumn_ReturnsOneValuePerRow(t *testing.T) {
	table := tableFixture()

	col, err := table.Column("EGFR")
	if err != nil {
		t.Fatalf("column: %v", err)
	}
	if len(col) != 3 {
		t.Fatalf("expected 3 values, got %d", len(col))
	}
	if col[0] == nil || *col[0] != 2 {
		t.Fatalf("unexpected P1 value: %v", col[0])
	}
	if col[1] != nil {
		t.Fatalf("P2 EGFR should be missing, got %v", *col[1])
	}
}

func TestColumn_UnknownMarkerFailsLookup(t *testing.T) {
	if _, err := tableFixture().Column("TP53"); !core.IsMarkerNotFound(err) {
		t.Fatalf("expected marker-not-found, got %v", err)
	}
}

func TestMarkers_UnionAcrossRows(t *testing.T) {
	markers := tableFixture().Markers()
	if len(markers) != 2 || markers[0] != "EGFR" || markers[1] != "MYC" {
		t.Fatalf("expected [EGFR MYC], got %v", markers)
	}
}

func TestFilterSubtype_CaseInsensitive(t *testing.T) {
	filtered := tableFixture().FilterSubtype("PRONEURAL")
	if filtered.Len() != 2 {
		t.Fatalf("expected 2 proneural rows, got %d", filtered.Len())
	}
	// Filtering never mutates the source table.
	if tableFixture().Len() != 3 {
		t.Fatalf("source table changed size")
	}
}
