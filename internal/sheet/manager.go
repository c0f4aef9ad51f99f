package sheet

import (
	"errors"
	"fmt"

	"shelfcheck/internal/candidate"
)

// ErrUnknownSheet indicates a sheet identifier outside the partitioned range.
var ErrUnknownSheet = errors.New("unknown sheet")

// DefaultMaxItems is the fallback chunk size when configuration supplies none.
const DefaultMaxItems = 50

// Partition splits a candidate set into contiguous sheets of at most maxItems
// candidates each. The first sheet starts active, the rest pending. The
// partition is total and disjoint: concatenating sheet items in order
// reproduces the set exactly.
func Partition(set *candidate.Set, maxItems int) ([]Sheet, error) {
	if set.Len() == 0 {
		return nil, candidate.ErrEmptySet
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	total := set.Len()
	sheets := make([]Sheet, 0, (total+maxItems-1)/maxItems)
	for start := 0; start < total; start += maxItems {
		end := start + maxItems
		if end > total {
			end = total
		}
		chunk := set.Items[start:end]
		parts := make([]string, 0, len(chunk))
		highPriority := 0
		for _, item := range chunk {
			parts = append(parts, item.PartNumber)
			if item.HighRisk() {
				highPriority++
			}
		}
		status := StatusPending
		if start == 0 {
			status = StatusActive
		}
		sheets = append(sheets, Sheet{
			ID:                len(sheets),
			PartNumbers:       parts,
			ItemCount:         len(parts),
			HighPriorityCount: highPriority,
			Status:            status,
		})
	}
	return sheets, nil
}

// Find returns the sheet with the given identifier.
func Find(sheets []Sheet, id int) (*Sheet, error) {
	if id < 0 || id >= len(sheets) {
		return nil, fmt.Errorf("%w: id %d (have %d sheets)", ErrUnknownSheet, id, len(sheets))
	}
	return &sheets[id], nil
}

// Active returns the currently active sheet, or nil when none is active
// (before partitioning or after the last sheet completed).
func Active(sheets []Sheet) *Sheet {
	for i := range sheets {
		if sheets[i].Status == StatusActive {
			return &sheets[i]
		}
	}
	return nil
}

// AdvanceFrom completes the sheet identified by completedID and activates the
// next pending sheet. It returns the newly active sheet, or nil with done=true
// when no pending sheet remains.
//
// The operation is idempotent per completed sheet: advancing from a sheet that
// is already completed leaves every status untouched and reports the current
// active sheet, so a retried call cannot skip ahead.
func AdvanceFrom(sheets []Sheet, completedID int) (next *Sheet, done bool, err error) {
	current, err := Find(sheets, completedID)
	if err != nil {
		return nil, false, err
	}
	if current.Status == StatusCompleted {
		active := Active(sheets)
		return active, active == nil, nil
	}
	if current.Status != StatusActive {
		return nil, false, fmt.Errorf("sheet %d is %s, not active", completedID, current.Status)
	}

	current.Status = StatusCompleted
	for i := range sheets {
		if sheets[i].Status == StatusPending {
			sheets[i].Status = StatusActive
			return &sheets[i], false, nil
		}
	}
	return nil, true, nil
}

// CompletedCount returns how many sheets have finished verification.
func CompletedCount(sheets []Sheet) int {
	count := 0
	for i := range sheets {
		if sheets[i].Status == StatusCompleted {
			count++
		}
	}
	return count
}

// Verify checks the single-active invariant: exactly one active sheet unless
// every sheet has completed.
func Verify(sheets []Sheet) error {
	if len(sheets) == 0 {
		return nil
	}
	active := 0
	completed := 0
	for i := range sheets {
		switch sheets[i].Status {
		case StatusActive:
			active++
		case StatusCompleted:
			completed++
		}
	}
	if completed == len(sheets) {
		if active != 0 {
			return fmt.Errorf("all sheets completed but %d still active", active)
		}
		return nil
	}
	if active != 1 {
		return fmt.Errorf("expected exactly one active sheet, found %d", active)
	}
	return nil
}
