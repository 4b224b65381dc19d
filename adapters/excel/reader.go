package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gosurv/domain/clinical"
	"gosurv/domain/core"
)

// ClinicalReader reads a wide-format clinical export (.xlsx Sheet1 or
// .csv) into a normalized patient table: one row per patient with a
// survival time, a vital status, an optional subtype label, and any number
// of numeric marker columns.
type ClinicalReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewClinicalReader creates a reader for an Excel or CSV clinical file.
func NewClinicalReader(filePath string) *ClinicalReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &ClinicalReader{filePath: filePath, fileType: fileType}
}

// Read loads and normalizes the clinical table.
func (r *ClinicalReader) Read() (*clinical.PatientTable, error) {
	start := time.Now()
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("clinical file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}

	table, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[ClinicalReader] %s: %d patients, %d marker columns in %.2fms",
		filepath.Base(r.filePath), table.Len(), len(table.Markers()),
		float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}

func (r *ClinicalReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

func (r *ClinicalReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// Recognized header spellings, lowercased. Clinical exports are not
// consistent about these.
var (
	patientHeaders = map[string]bool{"bcr_patient_barcode": true, "patient": true, "patient_id": true, "case_id": true}
	timeHeaders    = map[string]bool{"survival_days": true, "os_days": true, "days_to_last_followup": true, "time": true}
	vitalHeaders   = map[string]bool{"vital_status": true, "status": true}
	subtypeHeaders = map[string]bool{"subtype": true, "disease_subtype": true, "expression_subtype": true}
)

// ParseRows normalizes raw sheet rows (header row first) into a patient
// table. Patient, survival-time, and vital-status columns are required;
// every other column becomes a marker column with per-cell numeric
// coercion (unparseable cells become missing values, decided later at
// cohort-build time).
func ParseRows(rows [][]string) (*clinical.PatientTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("clinical table needs a header row and at least one data row, got %d rows", len(rows))
	}

	header := rows[0]
	patientIdx, timeIdx, vitalIdx, subtypeIdx := -1, -1, -1, -1
	markerIdx := make(map[int]clinical.MarkerKey)

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch {
		case patientHeaders[key]:
			patientIdx = i
		case timeHeaders[key]:
			timeIdx = i
		case vitalHeaders[key]:
			vitalIdx = i
		case subtypeHeaders[key]:
			subtypeIdx = i
		case key != "":
			markerIdx[i] = clinical.MarkerKey(strings.TrimSpace(name))
		}
	}

	if patientIdx < 0 {
		return nil, fmt.Errorf("no patient identifier column in header %v", header)
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("no survival time column in header %v", header)
	}
	if vitalIdx < 0 {
		return nil, fmt.Errorf("no vital status column in header %v", header)
	}

	patients := make([]clinical.PatientRow, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if cell(raw, patientIdx) == "" {
			continue
		}

		row := clinical.PatientRow{
			Patient:      core.NormalizePatientID(cell(raw, patientIdx)),
			SurvivalDays: parseNumeric(cell(raw, timeIdx)),
			Event:        parseVitalStatus(cell(raw, vitalIdx)),
			Markers:      make(map[clinical.MarkerKey]*float64, len(markerIdx)),
		}
		if subtypeIdx >= 0 {
			row.Subtype = cell(raw, subtypeIdx)
		}
		for i, marker := range markerIdx {
			row.Markers[marker] = parseNumeric(cell(raw, i))
		}
		patients = append(patients, row)
	}

	return clinical.NewPatientTable(patients), nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// missingTokens are the placeholder strings clinical exports use for
// absent values.
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "null": true, "none": true,
	"[not available]": true, "[not applicable]": true,
}

func parseNumeric(s string) *float64 {
	if missingTokens[strings.ToLower(s)] {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseVitalStatus derives the event indicator: death observed = event,
// alive/living = censored, anything else = missing.
func parseVitalStatus(s string) *bool {
	switch strings.ToLower(s) {
	case "dead", "deceased", "1":
		t := true
		return &t
	case "alive", "living", "0":
		f := false
		return &f
	default:
		return nil
	}
}
