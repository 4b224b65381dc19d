package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SweepID   ID
	PatientID ID
)

func (id SweepID) String() string   { return ID(id).String() }
func (id PatientID) String() string { return ID(id).String() }

// ParseSweepID parses a string into SweepID
func ParseSweepID(s string) (SweepID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("sweep ID cannot be empty")
	}
	return SweepID(s), nil
}

// NormalizePatientID truncates a raw patient barcode to the canonical
// 12-character participant key used to join clinical and genomic tables.
// Shorter identifiers pass through unchanged.
func NormalizePatientID(raw string) PatientID {
	s := strings.TrimSpace(raw)
	if len(s) > 12 {
		s = s[:12]
	}
	return PatientID(s)
}
