package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shelfcheck/internal/logging"
	"shelfcheck/internal/services"
	"shelfcheck/internal/services/learning"
	"shelfcheck/internal/sheet"
	"shelfcheck/internal/tracking"
	"shelfcheck/internal/validation"
)

// FinalizationSummary reports the outcome of finalizing one sheet.
type FinalizationSummary struct {
	SheetID             int             `json:"sheet_id"`
	ItemsProcessed      int             `json:"items_processed"`
	PhantomsConfirmed   int             `json:"phantoms_confirmed"`
	ImplicitMatches     int             `json:"implicit_matches"`
	ShrinkValue         decimal.Decimal `json:"shrink_value"`
	Accuracy            float64         `json:"accuracy"`
	LearningImprovement float64         `json:"learning_improvement"`
	HasNextSheet        bool            `json:"has_next_sheet"`
	NextSheetID         int             `json:"next_sheet_id"`
	CompletedSheets     int             `json:"completed_sheets"`
	TotalSheets         int             `json:"total_sheets"`
	FinalizedAt         time.Time       `json:"finalized_at"`
}

// Finalize submits the named sheet's verification results to the learning
// service and, on success, completes the sheet and activates the next one,
// seeding its entries at system stock and returning to the verification view.
// The submission happens before any state mutation: a failed or retryable
// external call leaves the run byte-for-byte where it was.
//
// Finalizing a sheet that already completed is idempotent when it was the
// most recently finalized sheet; its summary is returned without a second
// submission.
func (e *Engine) Finalize(ctx context.Context, sheetID int) (*FinalizationSummary, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	if state.AllCompleted {
		if state.LastSummary != nil && state.LastSummary.SheetID == sheetID {
			return state.LastSummary, nil
		}
		return nil, fmt.Errorf("run %s has already completed", state.RunID)
	}
	target, err := sheet.Find(state.Sheets, sheetID)
	if err != nil {
		return nil, err
	}
	if target.Status == sheet.StatusCompleted {
		if state.LastSummary != nil && state.LastSummary.SheetID == sheetID {
			return state.LastSummary, nil
		}
		return nil, fmt.Errorf("sheet %d has already been finalized", sheetID)
	}
	if target.Status != sheet.StatusActive {
		return nil, fmt.Errorf("sheet %d is %s, not active", sheetID, target.Status)
	}

	ctx = services.WithRunID(ctx, state.RunID)
	ctx = services.WithSheetID(ctx, sheetID)

	records, summary, err := e.collectRecords(state, target)
	if err != nil {
		return nil, err
	}
	submission := learning.Submission{
		RunID:           state.RunID,
		SheetID:         sheetID,
		TotalSheets:     len(state.Sheets),
		CompletedSheets: sheet.CompletedCount(state.Sheets),
		Records:         records,
	}
	outcome, err := e.learning.SubmitValidation(ctx, submission)
	if err != nil {
		e.logger.Error("validation submission failed",
			logging.String(logging.FieldRunID, state.RunID),
			logging.Int(logging.FieldSheetID, sheetID),
			logging.Bool("retryable", services.Retryable(err)),
			logging.Error(err))
		return nil, err
	}
	summary.Accuracy = outcome.Accuracy
	summary.LearningImprovement = outcome.LearningImprovement

	next, err := state.clone()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "workflow", "finalize", "clone state", err)
	}
	next.Tracker().ClearSheet(target)
	activated, done, err := sheet.AdvanceFrom(next.Sheets, sheetID)
	if err != nil {
		return nil, err
	}
	if done == outcome.SheetCompletion.HasNextSheet {
		e.logger.Warn("learning service progression disagrees with local sheets",
			logging.Int(logging.FieldSheetID, sheetID),
			logging.Bool("service_has_next", outcome.SheetCompletion.HasNextSheet),
			logging.Bool("local_has_next", !done))
	}
	summary.CompletedSheets = sheet.CompletedCount(next.Sheets)
	summary.TotalSheets = len(next.Sheets)
	summary.FinalizedAt = nowUTC()

	if done {
		// Terminal: keep the candidates for the validation view, drop the
		// per-sheet working data.
		next.Sheets = nil
		next.Entries = make(map[string]*tracking.Entry)
		next.AllCompleted = true
		next.CurrentView = ViewValidation
		next.SelectedSheet = -1
	} else {
		summary.HasNextSheet = true
		summary.NextSheetID = activated.ID
		next.SelectedSheet = activated.ID
		next.CurrentView = ViewVerification
		if err := next.Tracker().SeedSheet(activated); err != nil {
			return nil, err
		}
	}
	next.LastSummary = summary

	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	e.logger.Info("finalized sheet",
		logging.String(logging.FieldRunID, summaryRunID(e.state)),
		logging.Int(logging.FieldSheetID, sheetID),
		logging.Int("items", summary.ItemsProcessed),
		logging.Int("phantoms", summary.PhantomsConfirmed),
		logging.Int("implicit_matches", summary.ImplicitMatches),
		logging.String("shrink_value", summary.ShrinkValue.StringFixed(2)),
		logging.Bool("has_next", summary.HasNextSheet))
	return summary, nil
}

// collectRecords builds the submission records for a sheet without mutating
// state. Items the user never touched count as implicit matches: the actual
// count is assumed equal to the live system stock.
func (e *Engine) collectRecords(state *State, target *sheet.Sheet) ([]learning.Record, *FinalizationSummary, error) {
	summary := &FinalizationSummary{
		SheetID:     target.ID,
		ShrinkValue: decimal.Zero,
		NextSheetID: -1,
	}
	records := make([]learning.Record, 0, len(target.PartNumbers))
	tracker := state.Tracker()
	for _, part := range target.PartNumbers {
		live, ok := state.Candidates.ByPart(part)
		if !ok {
			return nil, nil, fmt.Errorf("sheet item %q has no candidate", part)
		}
		record := learning.Record{
			PartNumber:  part,
			SystemStock: live.CurrentStock,
			ActualCount: live.CurrentStock,
			RiskScore:   live.RiskScore,
		}
		entry, tracked := tracker.Entry(part)
		if tracked {
			result, evalErr := validation.Evaluate(entry, live)
			if evalErr != nil {
				var stale *validation.StaleEntryError
				if !errors.As(evalErr, &stale) {
					return nil, nil, evalErr
				}
				e.logger.Warn("stale tracking entry at finalization",
					logging.String(logging.FieldPartNumber, part),
					logging.Int("entry_stock", stale.EntryStock),
					logging.Int("live_stock", stale.LiveStock))
			}
			record.SystemStock = result.SystemStock
			record.ActualCount = result.ActualCount
			record.Notes = entry.Notes
			record.VerifiedBy = entry.VerifiedBy
			record.VerificationDate = entry.VerificationDate
			summary.ShrinkValue = summary.ShrinkValue.Add(validation.ShrinkValue(result, live.UnitCost))
		} else {
			summary.ImplicitMatches++
			e.logger.Debug("implicit match assumed",
				logging.String(logging.FieldPartNumber, part),
				logging.Int("system_stock", live.CurrentStock))
		}
		record.WasPhantom = validation.WasPhantom(record.SystemStock, record.ActualCount)
		if record.WasPhantom {
			summary.PhantomsConfirmed++
		}
		records = append(records, record)
	}
	summary.ItemsProcessed = len(records)
	return records, summary, nil
}

func summaryRunID(state *State) string {
	if state == nil {
		return ""
	}
	return state.RunID
}
