package tracking

import (
	"fmt"
	"strings"
	"time"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/sheet"
)

// Field names a mutable attribute of a tracking entry.
type Field string

const (
	FieldActualCount Field = "actual_count"
	FieldNotes       Field = "notes"
	FieldVerified    Field = "verified"
	FieldVerifiedBy  Field = "verified_by"
)

// ParseField converts a string into a known Field.
func ParseField(value string) (Field, bool) {
	normalized := Field(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case FieldActualCount, FieldNotes, FieldVerified, FieldVerifiedBy:
		return normalized, true
	default:
		return "", false
	}
}

// Entry holds the verification input recorded for one candidate.
// SystemStock snapshots the candidate's recorded stock at entry creation and
// must be re-checked against the live candidate on every recomputation.
type Entry struct {
	PartNumber       string     `json:"part_number"`
	SystemStock      int        `json:"system_stock"`
	ActualCount      int        `json:"actual_count"`
	Notes            string     `json:"notes,omitempty"`
	Verified         bool       `json:"verified"`
	VerifiedBy       string     `json:"verified_by,omitempty"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
}

// Tracker binds the entry map to the live candidate set for one workflow.
// It mutates entries in place; callers persist after each mutating call.
type Tracker struct {
	set     *candidate.Set
	entries map[string]*Entry
}

// NewTracker builds a tracker over the given candidate set and entry map.
// The map is shared with the caller, not copied.
func NewTracker(set *candidate.Set, entries map[string]*Entry) *Tracker {
	return &Tracker{set: set, entries: entries}
}

// Entry returns the tracked entry for a part number, if any.
func (t *Tracker) Entry(partNumber string) (*Entry, bool) {
	entry, ok := t.entries[partNumber]
	return entry, ok
}

func (t *Tracker) ensure(partNumber string) (*Entry, error) {
	if entry, ok := t.entries[partNumber]; ok {
		return entry, nil
	}
	live, ok := t.set.ByPart(partNumber)
	if !ok {
		return nil, fmt.Errorf("part %q is not in the candidate set", partNumber)
	}
	entry := &Entry{
		PartNumber:  partNumber,
		SystemStock: live.CurrentStock,
		ActualCount: live.CurrentStock,
	}
	t.entries[partNumber] = entry
	return entry, nil
}

// Upsert creates the entry on first touch and sets the requested field.
// Actual counts below zero are clamped, not rejected. The value type must
// match the field: int for actual_count, string for notes/verified_by, bool
// for verified.
func (t *Tracker) Upsert(partNumber string, field Field, value any) (*Entry, error) {
	entry, err := t.ensure(partNumber)
	if err != nil {
		return nil, err
	}
	switch field {
	case FieldActualCount:
		count, ok := value.(int)
		if !ok {
			return nil, fmt.Errorf("field %s expects an int, got %T", field, value)
		}
		entry.ActualCount = clampCount(count)
	case FieldNotes:
		notes, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s expects a string, got %T", field, value)
		}
		entry.Notes = notes
	case FieldVerified:
		verified, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s expects a bool, got %T", field, value)
		}
		entry.Verified = verified
		if verified {
			now := time.Now().UTC()
			entry.VerificationDate = &now
		} else {
			entry.VerificationDate = nil
		}
	case FieldVerifiedBy:
		by, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s expects a string, got %T", field, value)
		}
		entry.VerifiedBy = strings.TrimSpace(by)
	default:
		return nil, fmt.Errorf("unknown tracking field %q", field)
	}
	return entry, nil
}

// AdjustByDelta steps the actual count by exactly one in the direction of
// delta, mirroring the plus/minus stepper: the magnitude of delta is ignored.
// Counts clamp at zero. A zero delta is a no-op.
func (t *Tracker) AdjustByDelta(partNumber string, delta int) (*Entry, error) {
	entry, err := t.ensure(partNumber)
	if err != nil {
		return nil, err
	}
	switch {
	case delta > 0:
		entry.ActualCount = clampCount(entry.ActualCount + 1)
	case delta < 0:
		entry.ActualCount = clampCount(entry.ActualCount - 1)
	}
	return entry, nil
}

// ResetSheet restores every entry on the given sheet to the live stock with
// notes and verification cleared. Entries on other sheets are untouched.
func (t *Tracker) ResetSheet(sh *sheet.Sheet) error {
	if sh == nil {
		return fmt.Errorf("sheet is nil")
	}
	for _, part := range sh.PartNumbers {
		live, ok := t.set.ByPart(part)
		if !ok {
			return fmt.Errorf("part %q is not in the candidate set", part)
		}
		t.entries[part] = &Entry{
			PartNumber:  part,
			SystemStock: live.CurrentStock,
			ActualCount: live.CurrentStock,
		}
	}
	return nil
}

// SeedSheet creates default entries for every item on a newly activated sheet
// that has no entry yet.
func (t *Tracker) SeedSheet(sh *sheet.Sheet) error {
	if sh == nil {
		return fmt.Errorf("sheet is nil")
	}
	for _, part := range sh.PartNumbers {
		if _, err := t.ensure(part); err != nil {
			return err
		}
	}
	return nil
}

// ClearSheet removes every entry belonging to the given sheet.
func (t *Tracker) ClearSheet(sh *sheet.Sheet) {
	if sh == nil {
		return
	}
	for _, part := range sh.PartNumbers {
		delete(t.entries, part)
	}
}

// EntriesFor returns the tracked entries for the sheet's items in sheet
// order. Items without an entry are skipped.
func (t *Tracker) EntriesFor(sh *sheet.Sheet) []*Entry {
	if sh == nil {
		return nil
	}
	entries := make([]*Entry, 0, len(sh.PartNumbers))
	for _, part := range sh.PartNumbers {
		if entry, ok := t.entries[part]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func clampCount(count int) int {
	if count < 0 {
		return 0
	}
	return count
}
