package app

import (
	"context"
	"strings"
	"testing"

	"gosurv/domain/clinical"
	"gosurv/internal/testkit"
)

func TestReportMarkdown_ListsEveryMarker(t *testing.T) {
	table := testkit.Synthetic(testkit.DefaultSyntheticConfig())
	markers := []clinical.MarkerKey{"EGFR", "MYC", "MISSING_GENE"}

	batch, err := NewSweepService().RunSweep(context.Background(), table, markers, DefaultSweepOptions())
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}

	md := NewReportService().Markdown(batch)

	for _, m := range markers {
		if !strings.Contains(md, string(m)) {
			t.Errorf("report missing marker %s", m)
		}
	}
	if !strings.Contains(md, "## All markers") {
		t.Errorf("report missing marker table section")
	}
	if !strings.Contains(md, "invalid_marker") {
		t.Errorf("report should show the invalid-marker status")
	}
}
