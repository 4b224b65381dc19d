package app

import (
	"fmt"
	"strings"

	"gosurv/domain/survival"
)

// SignificanceLevel is the reporting threshold for calling a marker a hit.
// Uncorrected: multiple-testing correction is downstream's concern.
const SignificanceLevel = 0.05

// ReportService renders a batch result as a markdown report for human
// review or for the HTML report server.
type ReportService struct{}

// NewReportService creates a report service.
func NewReportService() *ReportService {
	return &ReportService{}
}

// Markdown renders the full sweep report.
func (r *ReportService) Markdown(batch *survival.BatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Survival Sweep %s\n\n", batch.SweepID)
	if batch.Dataset != "" {
		fmt.Fprintf(&b, "- Dataset: %s\n", batch.Dataset)
	}
	if batch.Subtype != "" {
		fmt.Fprintf(&b, "- Subtype: %s\n", batch.Subtype)
	}
	fmt.Fprintf(&b, "- Patients: %d\n", batch.Patients)
	fmt.Fprintf(&b, "- Markers tested: %d\n", len(batch.Outcomes))
	fmt.Fprintf(&b, "- Minimum group size: %d\n", batch.MinGroupSize)
	fmt.Fprintf(&b, "- Started: %s\n\n", batch.StartedAt.Format("2006-01-02 15:04:05 MST"))

	hits := r.significantMarkers(batch)
	fmt.Fprintf(&b, "## Significant markers (p < %.2f, uncorrected)\n\n", SignificanceLevel)
	if len(hits) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, o := range hits {
			fmt.Fprintf(&b, "- **%s**: chi-square %.4f, p = %.4g (gain n=%d, no-gain n=%d)\n",
				o.Marker, o.Test.ChiSquare, o.Test.PValue, o.SizeA, o.SizeB)
		}
		b.WriteString("\n")
	}

	b.WriteString("## All markers\n\n")
	b.WriteString("| Marker | Status | Chi-square | p-value | Gain | No Gain | Dropped | Note |\n")
	b.WriteString("|--------|--------|------------|---------|------|---------|---------|------|\n")
	for _, o := range batch.Outcomes {
		chi, p := "-", "-"
		if o.Test != nil {
			chi = fmt.Sprintf("%.4f", o.Test.ChiSquare)
			p = fmt.Sprintf("%.4g", o.Test.PValue)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d | %d | %s |\n",
			o.Marker, o.Status, chi, p, o.SizeA, o.SizeB, o.Dropped, o.Reason)
	}
	b.WriteString("\n")

	return b.String()
}

func (r *ReportService) significantMarkers(batch *survival.BatchResult) []survival.MarkerOutcome {
	var hits []survival.MarkerOutcome
	for _, o := range batch.Outcomes {
		if o.Evaluated() && o.Test.PValue < SignificanceLevel {
			hits = append(hits, o)
		}
	}
	return hits
}
