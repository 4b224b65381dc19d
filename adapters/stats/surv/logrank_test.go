package surv

import (
	"errors"
	"math"
	"testing"

	"gosurv/domain/core"
	"gosurv/domain/survival"
)

func TestCompare_KnownScenario(t *testing.T) {
	a := cohort(GroupGain, rec(10, true), rec(20, true), rec(30, false))
	b := cohort(GroupNoGain, rec(5, true), rec(15, true), rec(25, false))

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	// Pooled event times {5,10,15,20}: O_A=2, E_A=34/15, V=433/450,
	// so chi = (4/15)^2 / (433/450) = 32/433.
	want := 32.0 / 433.0
	if math.Abs(res.ChiSquare-want)/want > 1e-9 {
		t.Fatalf("expected chi-square %v, got %v", want, res.ChiSquare)
	}
	if math.Abs(res.PValue-0.785738) > 1e-3 {
		t.Fatalf("expected p-value near 0.7857, got %v", res.PValue)
	}
	if res.SizeA != 3 || res.SizeB != 3 {
		t.Fatalf("expected group sizes (3,3), got (%d,%d)", res.SizeA, res.SizeB)
	}
}

func TestCompare_SymmetricInGroupLabels(t *testing.T) {
	a := cohort(GroupGain, rec(4, true), rec(9, true), rec(15, false), rec(22, true), rec(30, false))
	b := cohort(GroupNoGain, rec(3, true), rec(9, false), rec(12, true), rec(18, true), rec(28, false))

	ab, err := Compare(a, b)
	if err != nil {
		t.Fatalf("compare a,b: %v", err)
	}
	ba, err := Compare(b, a)
	if err != nil {
		t.Fatalf("compare b,a: %v", err)
	}

	if math.Abs(ab.ChiSquare-ba.ChiSquare) > 1e-12 {
		t.Fatalf("chi-square not symmetric: %v vs %v", ab.ChiSquare, ba.ChiSquare)
	}
	if math.Abs(ab.PValue-ba.PValue) > 1e-12 {
		t.Fatalf("p-value not symmetric: %v vs %v", ab.PValue, ba.PValue)
	}
}

func TestCompare_IdenticalGroupsYieldZeroStatistic(t *testing.T) {
	recs := []survival.Record{rec(5, true), rec(10, true), rec(15, false), rec(20, true), rec(25, false)}
	a := cohort(GroupGain, recs...)
	b := cohort(GroupNoGain, recs...)

	res, err := Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if res.ChiSquare != 0 {
		t.Fatalf("expected exactly zero statistic for identical groups, got %v", res.ChiSquare)
	}
	if math.Abs(res.PValue-1.0) > 1e-12 {
		t.Fatalf("expected p-value 1 at zero statistic, got %v", res.PValue)
	}
}

func TestCompare_NoEventsIsNotComputable(t *testing.T) {
	a := cohort(GroupGain, rec(10, false), rec(20, false))
	b := cohort(GroupNoGain, rec(5, false), rec(15, false))

	_, err := Compare(a, b)
	if !errors.Is(err, core.ErrNotComputable) {
		t.Fatalf("expected ErrNotComputable, got %v", err)
	}
}

func TestCompare_SingletonRiskSetContributesNoVariance(t *testing.T) {
	// The only event happens when a single patient remains at risk, so
	// every variance term is zero and the statistic is undefined.
	a := cohort(GroupGain, rec(30, true))
	b := cohort(GroupNoGain, rec(5, false), rec(10, false))

	_, err := Compare(a, b)
	if !errors.Is(err, core.ErrNotComputable) {
		t.Fatalf("expected ErrNotComputable for zero variance, got %v", err)
	}
}

func TestCompare_DeterministicAcrossRuns(t *testing.T) {
	a := cohort(GroupGain, rec(4, true), rec(8, true), rec(16, false), rec(32, true))
	b := cohort(GroupNoGain, rec(2, true), rec(6, false), rec(12, true), rec(24, true))

	first, err := Compare(a, b)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compare(a, b)
		if err != nil {
			t.Fatalf("compare run %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("run %d differed: %+v vs %+v", i, again, first)
		}
	}
}
