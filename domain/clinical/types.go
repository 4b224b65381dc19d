package clinical

import (
	"sort"
	"strings"

	"gosurv/domain/core"
)

// MarkerKey identifies one genomic marker column (typically a gene locus
// carrying an integer copy-number category).
type MarkerKey string

func (k MarkerKey) String() string { return string(k) }

// PatientRow is one normalized clinical record as produced by the data
// join upstream. Optional fields are pointers; nil means the source table
// had no usable value. Rows are constructed once and never mutated.
type PatientRow struct {
	Patient      core.PatientID         `json:"patient"`
	Subtype      string                 `json:"subtype"`
	SurvivalDays *float64               `json:"survival_days"`
	Event        *bool                  `json:"event"`
	Markers      map[MarkerKey]*float64 `json:"markers"`
}

// Marker returns the row's value for one marker column, nil when missing.
func (r PatientRow) Marker(key MarkerKey) *float64 {
	if r.Markers == nil {
		return nil
	}
	return r.Markers[key]
}

// PatientTable is a normalized (patient x marker) view over clinical rows.
// Marker access always goes through Column/HasMarker so an unknown marker
// is an explicit lookup failure, never a silent zero column.
type PatientTable struct {
	rows    []PatientRow
	markers map[MarkerKey]struct{}
}

// NewPatientTable builds a table from normalized rows. The marker column
// set is the union of marker keys seen across rows.
func NewPatientTable(rows []PatientRow) *PatientTable {
	markers := make(map[MarkerKey]struct{})
	for _, row := range rows {
		for key := range row.Markers {
			markers[key] = struct{}{}
		}
	}
	return &PatientTable{rows: rows, markers: markers}
}

// Rows returns the underlying rows. Callers must not mutate them.
func (t *PatientTable) Rows() []PatientRow { return t.rows }

// Len returns the number of patient rows.
func (t *PatientTable) Len() int { return len(t.rows) }

// HasMarker reports whether the table carries the given marker column.
func (t *PatientTable) HasMarker(key MarkerKey) bool {
	_, ok := t.markers[key]
	return ok
}

// Markers lists the table's marker columns in lexical order.
func (t *PatientTable) Markers() []MarkerKey {
	keys := make([]MarkerKey, 0, len(t.markers))
	for key := range t.markers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Column returns the marker column as one value per row (nil = missing).
// Unknown markers return ErrMarkerNotFound.
func (t *PatientTable) Column(key MarkerKey) ([]*float64, error) {
	if !t.HasMarker(key) {
		return nil, core.NewMarkerNotFoundError(string(key))
	}
	col := make([]*float64, len(t.rows))
	for i, row := range t.rows {
		col[i] = row.Marker(key)
	}
	return col, nil
}

// FilterSubtype returns a new table restricted to rows whose subtype label
// matches (case-insensitive). The receiver is left untouched.
func (t *PatientTable) FilterSubtype(label string) *PatientTable {
	want := strings.ToLower(strings.TrimSpace(label))
	filtered := make([]PatientRow, 0, len(t.rows))
	for _, row := range t.rows {
		if strings.ToLower(strings.TrimSpace(row.Subtype)) == want {
			filtered = append(filtered, row)
		}
	}
	return NewPatientTable(filtered)
}
