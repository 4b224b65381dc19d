package surv

import (
	"math"
	"testing"

	"gosurv/domain/survival"
)

func TestSummarize_CountsAndMedianSurvival(t *testing.T) {
	c := cohort(GroupGain,
		rec(10, true), rec(20, true), rec(30, true), rec(40, false),
	)
	curve := Estimate(c)
	s := Summarize(c, curve)

	if s.Size != 4 || s.Events != 3 || s.Censored != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	// S drops to 0.75, 0.5, 0.25: median survival is the step at t=20.
	if s.MedianSurvival == nil || *s.MedianSurvival != 20 {
		t.Fatalf("expected median survival 20, got %v", s.MedianSurvival)
	}
	if math.Abs(s.FollowUpMedian-25) > 1e-9 {
		t.Fatalf("expected follow-up median 25, got %v", s.FollowUpMedian)
	}
}

func TestSummarize_MedianUndefinedWhenCurveStaysHigh(t *testing.T) {
	c := cohort(GroupNoGain,
		rec(10, true), rec(20, false), rec(30, false), rec(40, false), rec(50, false),
	)
	s := Summarize(c, Estimate(c))

	if s.MedianSurvival != nil {
		t.Fatalf("expected undefined median survival, got %v", *s.MedianSurvival)
	}
	if s.Events != 1 || s.Censored != 4 {
		t.Fatalf("unexpected counts: %+v", s)
	}
}

func TestSummarize_EmptyCohort(t *testing.T) {
	c := survival.Cohort{Name: GroupGain}
	s := Summarize(c, Estimate(c))

	if s.Size != 0 || s.MedianSurvival != nil {
		t.Fatalf("unexpected summary for empty cohort: %+v", s)
	}
}
