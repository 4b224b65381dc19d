package excel

import (
	"testing"
)

func sheet() [][]string {
	return [][]string{
		{"bcr_patient_barcode", "subtype", "survival_days", "vital_status", "EGFR", "MYC"},
		{"TCGA-02-0001-01A", "Proneural", "358", "Dead", "2", "0"},
		{"TCGA-02-0002-01B", "Proneural", "1200", "Alive", "0", "1"},
		{"TCGA-02-0003", "Mesenchymal", "90", "Dead", "[Not Available]", "0"},
		{"TCGA-02-0004", "Proneural", "NA", "Dead", "1", "1"},
		{"TCGA-02-0005", "Proneural", "500", "", "1", "garbage"},
	}
}

func TestParseRows_NormalizesPatients(t *testing.T) {
	table, err := ParseRows(sheet())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if table.Len() != 5 {
		t.Fatalf("expected 5 patients, got %d", table.Len())
	}

	rows := table.Rows()
	// Barcode truncated to the 12-character participant key.
	if rows[0].Patient != "TCGA-02-0001" {
		t.Fatalf("expected truncated barcode, got %q", rows[0].Patient)
	}
	if rows[0].SurvivalDays == nil || *rows[0].SurvivalDays != 358 {
		t.Fatalf("unexpected survival days: %v", rows[0].SurvivalDays)
	}
	if rows[0].Event == nil || !*rows[0].Event {
		t.Fatalf("Dead should produce event=true")
	}
	if rows[1].Event == nil || *rows[1].Event {
		t.Fatalf("Alive should produce event=false")
	}
}

func TestParseRows_MissingValuesStayMissing(t *testing.T) {
	table, err := ParseRows(sheet())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rows := table.Rows()

	if rows[2].Marker("EGFR") != nil {
		t.Errorf("[Not Available] marker should be missing")
	}
	if rows[3].SurvivalDays != nil {
		t.Errorf("NA survival time should be missing")
	}
	if rows[4].Event != nil {
		t.Errorf("blank vital status should be missing")
	}
	if rows[4].Marker("MYC") != nil {
		t.Errorf("unparseable marker cell should be missing")
	}
}

func TestParseRows_MarkerColumns(t *testing.T) {
	table, err := ParseRows(sheet())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	markers := table.Markers()
	if len(markers) != 2 || markers[0] != "EGFR" || markers[1] != "MYC" {
		t.Fatalf("expected marker columns [EGFR MYC], got %v", markers)
	}

	if _, err := table.Column("EGFR"); err != nil {
		t.Fatalf("column lookup: %v", err)
	}
	if _, err := table.Column("TP53"); err == nil {
		t.Fatalf("expected lookup failure for unknown marker")
	}
}

func TestParseRows_SubtypeFilter(t *testing.T) {
	table, err := ParseRows(sheet())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	filtered := table.FilterSubtype("proneural")
	if filtered.Len() != 4 {
		t.Fatalf("expected 4 Proneural patients, got %d", filtered.Len())
	}
}

func TestParseRows_RejectsHeaderlessInput(t *testing.T) {
	if _, err := ParseRows([][]string{{"bcr_patient_barcode", "survival_days", "vital_status"}}); err == nil {
		t.Fatalf("expected error for table without data rows")
	}
	if _, err := ParseRows([][]string{
		{"id_col", "other"},
		{"x", "y"},
	}); err == nil {
		t.Fatalf("expected error for missing required columns")
	}
}
