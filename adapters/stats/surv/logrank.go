package surv

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"gosurv/domain/core"
	"gosurv/domain/survival"
)

// Compare runs the two-group log-rank test over both cohorts' event
// histories.
//
// At each pooled distinct event time, group A's observed events are
// compared with its expected share d*nA/n under the null of identical
// hazards, with the hypergeometric variance term
// d*(nA/n)*(1-nA/n)*(n-d)/(n-1) (zero when n <= 1). The statistic
// (O-E)^2/V is chi-square with one degree of freedom for two groups; the
// p-value is its exact upper tail. Swapping the two groups leaves both
// values unchanged.
//
// When the variance accumulates to zero there is no informative overlap
// between the groups and the statistic is undefined; that surfaces as
// core.ErrNotComputable rather than a fake p-value.
func Compare(a, b survival.Cohort) (survival.TestResult, error) {
	times := pooledEventTimes(a, b)

	var observedA, expectedA, variance float64
	for _, t := range times {
		nA, dA := riskAndEvents(a, t)
		nB, dB := riskAndEvents(b, t)

		n := nA + nB
		d := dA + dB
		if n == 0 {
			continue
		}

		fracA := float64(nA) / float64(n)
		observedA += float64(dA)
		expectedA += float64(d) * fracA
		if n > 1 {
			variance += float64(d) * fracA * (1 - fracA) * float64(n-d) / float64(n-1)
		}
	}

	if variance == 0 {
		return survival.TestResult{}, core.ErrNotComputable
	}

	diff := observedA - expectedA
	chi := diff * diff / variance
	chiDist := distuv.ChiSquared{K: 1}

	return survival.TestResult{
		ChiSquare: chi,
		PValue:    chiDist.Survival(chi),
		SizeA:     a.Size(),
		SizeB:     b.Size(),
	}, nil
}

// pooledEventTimes returns the sorted distinct event times across both
// cohorts.
func pooledEventTimes(a, b survival.Cohort) []float64 {
	seen := make(map[float64]struct{})
	for _, c := range []survival.Cohort{a, b} {
		for _, r := range c.Records {
			if r.Event {
				seen[r.Time] = struct{}{}
			}
		}
	}

	times := make([]float64, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Float64s(times)
	return times
}

// riskAndEvents counts the at-risk set and observed events for one cohort
// at time t. Records are sorted by time, so the at-risk count is the tail
// starting at the first record with time >= t.
func riskAndEvents(c survival.Cohort, t float64) (atRisk, events int) {
	first := sort.Search(len(c.Records), func(i int) bool {
		return c.Records[i].Time >= t
	})
	atRisk = len(c.Records) - first
	for i := first; i < len(c.Records) && c.Records[i].Time == t; i++ {
		if c.Records[i].Event {
			events++
		}
	}
	return atRisk, events
}
