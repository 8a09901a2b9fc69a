package domain

import (
	"fmt"
	"time"
)

// MaterialStatus represents the upload state of a course material.
type MaterialStatus string

const (
	MaterialStatusPending  MaterialStatus = "pending"
	MaterialStatusUploaded MaterialStatus = "uploaded"
)

// Material is an uploaded course file (syllabus, lecture handout) stored in
// S3-compatible storage and keyed to a curriculum phase and week.
type Material struct {
	ID          string
	Phase       Phase
	Week        int
	Filename    string
	ContentType string
	SizeBytes   int64
	SHA256      string
	StorageKey  string
	Status      MaterialStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateMaterial validates a Material instance.
func ValidateMaterial(m *Material) error {
	if m == nil {
		return fmt.Errorf("material cannot be nil")
	}

	if m.ID == "" {
		return fmt.Errorf("material ID is required")
	}

	if m.Filename == "" {
		return fmt.Errorf("material Filename is required")
	}

	if m.StorageKey == "" {
		return fmt.Errorf("material StorageKey is required")
	}

	if !isValidMaterialStatus(m.Status) {
		return fmt.Errorf("material Status is invalid: %s", m.Status)
	}

	return nil
}

func isValidMaterialStatus(s MaterialStatus) bool {
	switch s {
	case MaterialStatusPending, MaterialStatusUploaded:
		return true
	}
	return false
}
