package learning

import (
	"context"
	"time"
)

// Record is one item's verification outcome submitted for model feedback.
type Record struct {
	PartNumber       string     `json:"part_number"`
	SystemStock      int        `json:"system_stock"`
	ActualCount      int        `json:"actual_count"`
	WasPhantom       bool       `json:"was_phantom"`
	RiskScore        float64    `json:"risk_score"`
	Notes            string     `json:"notes,omitempty"`
	VerifiedBy       string     `json:"verified_by,omitempty"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
}

// Submission carries a finalized sheet's records plus workflow position so
// the service can decide progression.
type Submission struct {
	RunID           string   `json:"run_id"`
	SheetID         int      `json:"sheet_id"`
	TotalSheets     int      `json:"total_sheets"`
	CompletedSheets int      `json:"completed_sheets"`
	Records         []Record `json:"records"`
}

// SheetCompletion is the service's progression decision for the workflow.
type SheetCompletion struct {
	CompletedSheetID int  `json:"completed_sheet_id"`
	HasNextSheet     bool `json:"has_next_sheet"`
	TotalSheets      int  `json:"total_sheets"`
	CompletedSheets  int  `json:"completed_sheets"`
}

// Outcome is the structured response to a validation submission.
type Outcome struct {
	Accuracy            float64         `json:"accuracy"`
	LearningImprovement float64         `json:"learning_improvement"`
	SheetCompletion     SheetCompletion `json:"sheet_completion"`
}

// Client defines the learning-service surface the finalization flow needs.
type Client interface {
	SubmitValidation(ctx context.Context, submission Submission) (*Outcome, error)
}
