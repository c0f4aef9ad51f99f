package testsupport

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"shelfcheck/internal/candidate"
)

// NewCandidateSet builds a deterministic candidate set of the given size.
// Part numbers run P-001 onward, stocks cycle 1..5, and every third item is
// scored above the high-risk threshold.
func NewCandidateSet(t testing.TB, size int) *candidate.Set {
	t.Helper()

	items := make([]candidate.Candidate, 0, size)
	for i := 0; i < size; i++ {
		risk := 30.0
		factors := []string{"slow mover"}
		mover := candidate.MoverSlow
		if i%3 == 0 {
			risk = 85.0
			factors = []string{"negative trend", "zero sales with stock"}
		}
		items = append(items, candidate.Candidate{
			PartNumber:   fmt.Sprintf("P-%03d", i+1),
			Description:  fmt.Sprintf("Test part %d", i+1),
			CurrentStock: i%5 + 1,
			UnitCost:     decimal.NewFromFloat(2.50),
			RiskScore:    risk,
			RiskFactors:  factors,
			MoverType:    mover,
		})
	}
	set, err := candidate.NewSet(items, size)
	if err != nil {
		t.Fatalf("candidate.NewSet: %v", err)
	}
	return set
}
