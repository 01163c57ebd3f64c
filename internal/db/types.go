package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	JobID        string     `json:"job_id"`
	JobTitle     string     `json:"job_title"`
	Agency       string     `json:"agency"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Run status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Artifact step names
const (
	StepJobRecord       = "job_record"
	StepAnalysis        = "analysis"
	StepTailoring       = "tailoring"
	StepOutreach        = "outreach"
	StepExtractedFields = "extracted_fields"
)
