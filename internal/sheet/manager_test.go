package sheet_test

import (
	"errors"
	"testing"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/sheet"
	"shelfcheck/internal/testsupport"
)

func TestPartitionChunksContiguously(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 25)

	sheets, err := sheet.Partition(set, 10)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(sheets) != 3 {
		t.Fatalf("expected 3 sheets for 25 items at chunk 10, got %d", len(sheets))
	}
	if sheets[0].ItemCount != 10 || sheets[1].ItemCount != 10 || sheets[2].ItemCount != 5 {
		t.Fatalf("unexpected chunk sizes: %d/%d/%d", sheets[0].ItemCount, sheets[1].ItemCount, sheets[2].ItemCount)
	}

	var rejoined []string
	for _, sh := range sheets {
		rejoined = append(rejoined, sh.PartNumbers...)
	}
	if len(rejoined) != set.Len() {
		t.Fatalf("partition lost items: %d of %d", len(rejoined), set.Len())
	}
	for i, part := range rejoined {
		if part != set.Items[i].PartNumber {
			t.Fatalf("item %d out of order: got %s, want %s", i, part, set.Items[i].PartNumber)
		}
	}
}

func TestPartitionActivatesFirstSheetOnly(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 12)

	sheets, err := sheet.Partition(set, 5)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if sheets[0].Status != sheet.StatusActive {
		t.Fatalf("first sheet is %s, want active", sheets[0].Status)
	}
	for _, sh := range sheets[1:] {
		if sh.Status != sheet.StatusPending {
			t.Fatalf("sheet %d is %s, want pending", sh.ID, sh.Status)
		}
	}
	if err := sheet.Verify(sheets); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestPartitionCountsHighPriorityItems(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 6)

	sheets, err := sheet.Partition(set, 6)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	// Every third item in the fixture scores above the threshold.
	if sheets[0].HighPriorityCount != 2 {
		t.Fatalf("high priority count %d, want 2", sheets[0].HighPriorityCount)
	}
}

func TestPartitionRejectsEmptySet(t *testing.T) {
	empty := &candidate.Set{RunID: "run", Items: nil}
	if _, err := sheet.Partition(empty, 10); !errors.Is(err, candidate.ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestPartitionDefaultsChunkSize(t *testing.T) {
	set := testsupport.NewCandidateSet(t, sheet.DefaultMaxItems+1)

	sheets, err := sheet.Partition(set, 0)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected default chunking into 2 sheets, got %d", len(sheets))
	}
}

func TestAdvanceFromActivatesNextSheet(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 25)
	sheets, err := sheet.Partition(set, 10)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	next, done, err := sheet.AdvanceFrom(sheets, 0)
	if err != nil {
		t.Fatalf("AdvanceFrom: %v", err)
	}
	if done {
		t.Fatal("done reported with pending sheets remaining")
	}
	if next == nil || next.ID != 1 {
		t.Fatalf("expected sheet 1 to activate, got %+v", next)
	}
	if sheets[0].Status != sheet.StatusCompleted {
		t.Fatalf("sheet 0 is %s, want completed", sheets[0].Status)
	}
	if err := sheet.Verify(sheets); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestAdvanceFromIsIdempotentPerSheet(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 25)
	sheets, err := sheet.Partition(set, 10)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if _, _, err := sheet.AdvanceFrom(sheets, 0); err != nil {
		t.Fatalf("first advance: %v", err)
	}

	next, done, err := sheet.AdvanceFrom(sheets, 0)
	if err != nil {
		t.Fatalf("repeated advance: %v", err)
	}
	if done {
		t.Fatal("repeated advance reported done")
	}
	if next == nil || next.ID != 1 {
		t.Fatalf("repeated advance moved the active sheet: %+v", next)
	}
	if sheets[2].Status != sheet.StatusPending {
		t.Fatalf("repeated advance touched sheet 2: %s", sheets[2].Status)
	}
}

func TestAdvanceFromLastSheetReportsDone(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 8)
	sheets, err := sheet.Partition(set, 4)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if _, _, err := sheet.AdvanceFrom(sheets, 0); err != nil {
		t.Fatalf("advance 0: %v", err)
	}

	next, done, err := sheet.AdvanceFrom(sheets, 1)
	if err != nil {
		t.Fatalf("advance 1: %v", err)
	}
	if !done || next != nil {
		t.Fatalf("expected terminal advance, got next=%+v done=%v", next, done)
	}
	if got := sheet.CompletedCount(sheets); got != 2 {
		t.Fatalf("completed count %d, want 2", got)
	}
}

func TestAdvanceFromRejectsUnknownSheet(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 5)
	sheets, err := sheet.Partition(set, 5)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if _, _, err := sheet.AdvanceFrom(sheets, 7); !errors.Is(err, sheet.ErrUnknownSheet) {
		t.Fatalf("expected ErrUnknownSheet, got %v", err)
	}
}

func TestFindRejectsOutOfRangeIDs(t *testing.T) {
	set := testsupport.NewCandidateSet(t, 5)
	sheets, err := sheet.Partition(set, 5)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if _, err := sheet.Find(sheets, -1); !errors.Is(err, sheet.ErrUnknownSheet) {
		t.Fatalf("expected ErrUnknownSheet for -1, got %v", err)
	}
	if _, err := sheet.Find(sheets, 1); !errors.Is(err, sheet.ErrUnknownSheet) {
		t.Fatalf("expected ErrUnknownSheet for 1, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := sheet.ParseStatus(" Active "); !ok || status != sheet.StatusActive {
		t.Fatalf("ParseStatus(Active) = %q, %v", status, ok)
	}
	if _, ok := sheet.ParseStatus("archived"); ok {
		t.Fatal("ParseStatus accepted unknown status")
	}
}
