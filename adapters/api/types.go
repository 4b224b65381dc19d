package api

import (
	"gosurv/domain/clinical"
	"gosurv/domain/survival"
)

// SweepRequest is the POST body for running a sweep.
type SweepRequest struct {
	// Markers are the gene/marker column names to test, in order.
	Markers []string `json:"markers" binding:"required,min=1"`
	// Subtype optionally restricts the population before cohort building.
	Subtype string `json:"subtype"`
	// MinGroupSize overrides the server default when positive.
	MinGroupSize int `json:"min_group_size"`
}

// SweepResponse wraps a batch result for the wire. PValues repeats the
// evaluated markers as a flat marker -> p-value map so plotting clients
// do not have to walk the outcome list.
type SweepResponse struct {
	Result  *survival.BatchResult          `json:"result"`
	PValues map[clinical.MarkerKey]float64 `json:"p_values"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
