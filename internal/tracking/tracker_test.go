package tracking_test

import (
	"strings"
	"testing"

	"shelfcheck/internal/sheet"
	"shelfcheck/internal/testsupport"
	"shelfcheck/internal/tracking"
)

func newTracker(t *testing.T, size int) (*tracking.Tracker, map[string]*tracking.Entry, []sheet.Sheet) {
	t.Helper()
	set := testsupport.NewCandidateSet(t, size)
	sheets, err := sheet.Partition(set, 5)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	entries := make(map[string]*tracking.Entry)
	return tracking.NewTracker(set, entries), entries, sheets
}

func TestUpsertCreatesEntryWithLiveDefaults(t *testing.T) {
	tracker, entries, _ := newTracker(t, 5)

	entry, err := tracker.Upsert("P-002", tracking.FieldNotes, "rechecked shelf")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	// Fixture stock for the second part is 2.
	if entry.SystemStock != 2 || entry.ActualCount != 2 {
		t.Fatalf("entry defaults %d/%d, want system stock 2 and matching count", entry.SystemStock, entry.ActualCount)
	}
	if entry.Notes != "rechecked shelf" {
		t.Fatalf("notes %q", entry.Notes)
	}
	if entry.Verified {
		t.Fatal("new entry marked verified")
	}
	if len(entries) != 1 {
		t.Fatalf("entry map has %d entries, want 1", len(entries))
	}
}

func TestUpsertClampsNegativeCounts(t *testing.T) {
	tracker, _, _ := newTracker(t, 5)

	entry, err := tracker.Upsert("P-001", tracking.FieldActualCount, -3)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if entry.ActualCount != 0 {
		t.Fatalf("count %d, want clamp to 0", entry.ActualCount)
	}
}

func TestUpsertRejectsUnknownPart(t *testing.T) {
	tracker, _, _ := newTracker(t, 5)

	if _, err := tracker.Upsert("P-999", tracking.FieldActualCount, 1); err == nil {
		t.Fatal("expected error for part outside the candidate set")
	}
}

func TestUpsertRejectsMismatchedValueType(t *testing.T) {
	tracker, _, _ := newTracker(t, 5)

	if _, err := tracker.Upsert("P-001", tracking.FieldActualCount, "four"); err == nil {
		t.Fatal("expected type mismatch error")
	} else if !strings.Contains(err.Error(), "expects an int") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertVerifiedStampsDate(t *testing.T) {
	tracker, _, _ := newTracker(t, 5)

	entry, err := tracker.Upsert("P-003", tracking.FieldVerified, true)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !entry.Verified || entry.VerificationDate == nil {
		t.Fatalf("verified=%v date=%v", entry.Verified, entry.VerificationDate)
	}

	entry, err = tracker.Upsert("P-003", tracking.FieldVerified, false)
	if err != nil {
		t.Fatalf("unset verified: %v", err)
	}
	if entry.Verified || entry.VerificationDate != nil {
		t.Fatalf("unset left verified=%v date=%v", entry.Verified, entry.VerificationDate)
	}
}

func TestAdjustByDeltaStepsByOne(t *testing.T) {
	tracker, _, _ := newTracker(t, 5)

	// Fixture stock for the first part is 1.
	entry, err := tracker.AdjustByDelta("P-001", 5)
	if err != nil {
		t.Fatalf("AdjustByDelta: %v", err)
	}
	if entry.ActualCount != 2 {
		t.Fatalf("count %d after +5, want a single step to 2", entry.ActualCount)
	}

	for i := 0; i < 4; i++ {
		if entry, err = tracker.AdjustByDelta("P-001", -1); err != nil {
			t.Fatalf("AdjustByDelta: %v", err)
		}
	}
	if entry.ActualCount != 0 {
		t.Fatalf("count %d, want clamp at 0", entry.ActualCount)
	}

	if entry, err = tracker.AdjustByDelta("P-001", 0); err != nil {
		t.Fatalf("AdjustByDelta: %v", err)
	}
	if entry.ActualCount != 0 {
		t.Fatalf("zero delta changed count to %d", entry.ActualCount)
	}
}

func TestResetSheetScopesToSheetItems(t *testing.T) {
	tracker, entries, sheets := newTracker(t, 10)

	if _, err := tracker.Upsert("P-001", tracking.FieldActualCount, 0); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := tracker.Upsert("P-001", tracking.FieldNotes, "shelf empty"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := tracker.Upsert("P-006", tracking.FieldActualCount, 9); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := tracker.ResetSheet(&sheets[0]); err != nil {
		t.Fatalf("ResetSheet: %v", err)
	}

	first := entries["P-001"]
	if first.ActualCount != first.SystemStock || first.Notes != "" || first.Verified {
		t.Fatalf("sheet entry not reset: %+v", first)
	}
	if entries["P-006"].ActualCount != 9 {
		t.Fatalf("reset leaked onto another sheet: %+v", entries["P-006"])
	}
}

func TestSeedSheetPreservesExistingEntries(t *testing.T) {
	tracker, entries, sheets := newTracker(t, 5)

	if _, err := tracker.Upsert("P-002", tracking.FieldActualCount, 7); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := tracker.SeedSheet(&sheets[0]); err != nil {
		t.Fatalf("SeedSheet: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("seed created %d entries, want 5", len(entries))
	}
	if entries["P-002"].ActualCount != 7 {
		t.Fatalf("seed overwrote existing entry: %+v", entries["P-002"])
	}
}

func TestEntriesForReturnsSheetOrder(t *testing.T) {
	tracker, _, sheets := newTracker(t, 5)

	if _, err := tracker.Upsert("P-004", tracking.FieldActualCount, 1); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := tracker.Upsert("P-001", tracking.FieldActualCount, 0); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got := tracker.EntriesFor(&sheets[0])
	if len(got) != 2 {
		t.Fatalf("EntriesFor returned %d entries, want 2", len(got))
	}
	if got[0].PartNumber != "P-001" || got[1].PartNumber != "P-004" {
		t.Fatalf("entries out of sheet order: %s, %s", got[0].PartNumber, got[1].PartNumber)
	}
}

func TestParseField(t *testing.T) {
	if field, ok := tracking.ParseField(" Actual_Count "); !ok || field != tracking.FieldActualCount {
		t.Fatalf("ParseField = %q, %v", field, ok)
	}
	if _, ok := tracking.ParseField("priority"); ok {
		t.Fatal("ParseField accepted unknown field")
	}
}
