package surv

import (
	"gosurv/domain/survival"
)

// Estimate computes the Kaplan-Meier survival function for one cohort.
//
// Records sharing an exact time aggregate into a single step: at each
// distinct event time t, n = records still at risk (times >= t, censored
// at t included) and d = events at t, with S multiplied by (1 - d/n).
// Censored records shrink the risk set at their time but contribute no
// factor, so an all-censored cohort yields a constant S = 1 with zero
// curve points. The curve holds flat from the last event time through the
// maximum observed time.
//
// The cohort must already be sorted by time ascending, which BuildCohorts
// guarantees.
func Estimate(c survival.Cohort) survival.Curve {
	curve := survival.Curve{
		Cohort:  c.Name,
		MaxTime: c.MaxTime(),
	}

	s := 1.0
	atRisk := len(c.Records)

	for i := 0; i < len(c.Records); {
		t := c.Records[i].Time
		events := 0
		j := i
		for ; j < len(c.Records) && c.Records[j].Time == t; j++ {
			if c.Records[j].Event {
				events++
			}
		}

		if events > 0 {
			s *= 1 - float64(events)/float64(atRisk)
			curve.Points = append(curve.Points, survival.CurvePoint{
				Time:     t,
				AtRisk:   atRisk,
				Events:   events,
				Survival: s,
			})
		}

		atRisk -= j - i
		i = j
	}

	return curve
}
