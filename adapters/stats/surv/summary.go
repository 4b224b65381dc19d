package surv

import (
	"github.com/montanaflynn/stats"

	"gosurv/domain/survival"
)

// CohortSummary carries the per-group descriptives reports attach next to
// a curve: event/censor split, follow-up spread, and the median survival
// read off the Kaplan-Meier curve (nil when the curve never falls to 0.5).
type CohortSummary struct {
	Name           string   `json:"name"`
	Size           int      `json:"size"`
	Events         int      `json:"events"`
	Censored       int      `json:"censored"`
	FollowUpQ1     float64  `json:"follow_up_q1"`
	FollowUpMedian float64  `json:"follow_up_median"`
	FollowUpQ3     float64  `json:"follow_up_q3"`
	MeanFollowUp   float64  `json:"mean_follow_up"`
	MedianSurvival *float64 `json:"median_survival,omitempty"`
}

// Summarize computes descriptive statistics for one cohort and its curve.
func Summarize(c survival.Cohort, curve survival.Curve) CohortSummary {
	summary := CohortSummary{
		Name:     c.Name,
		Size:     c.Size(),
		Events:   c.EventCount(),
		Censored: c.Size() - c.EventCount(),
	}
	if c.Size() == 0 {
		return summary
	}

	times := make([]float64, len(c.Records))
	for i, r := range c.Records {
		times[i] = r.Time
	}

	summary.FollowUpQ1, _ = stats.Percentile(times, 25)
	summary.FollowUpMedian, _ = stats.Median(times)
	summary.FollowUpQ3, _ = stats.Percentile(times, 75)
	summary.MeanFollowUp, _ = stats.Mean(times)

	for _, p := range curve.Points {
		if p.Survival <= 0.5 {
			t := p.Time
			summary.MedianSurvival = &t
			break
		}
	}

	return summary
}
