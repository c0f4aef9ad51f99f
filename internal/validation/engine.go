package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/tracking"
)

// Status labels the outcome of comparing an actual count to system stock.
type Status string

const (
	StatusMatch       Status = "match"
	StatusDiscrepancy Status = "discrepancy"
)

// Result is the derived comparison for one entry. It is computed on demand
// and never persisted.
type Result struct {
	PartNumber  string
	SystemStock int
	ActualCount int
	// Variance is actual minus system: positive means overage (more on the
	// shelf than recorded), negative means shortage.
	Variance int
	Status   Status
}

// StaleEntryError reports that an entry's cached stock snapshot no longer
// matches the live candidate record. The accompanying Result is already
// computed from the live value.
type StaleEntryError struct {
	PartNumber string
	EntryStock int
	LiveStock  int
}

func (e *StaleEntryError) Error() string {
	return fmt.Sprintf("stale tracking entry for %s: snapshot stock %d, live stock %d",
		e.PartNumber, e.EntryStock, e.LiveStock)
}

// Evaluate computes the variance and status for an entry against the live
// candidate. When the entry's snapshot disagrees with live stock, the live
// value is authoritative: the Result reflects it and a *StaleEntryError is
// returned alongside so callers can flag the divergence. The Result is valid
// in both cases.
func Evaluate(entry *tracking.Entry, live candidate.Candidate) (Result, error) {
	systemStock := live.CurrentStock
	result := Result{
		PartNumber:  live.PartNumber,
		SystemStock: systemStock,
		ActualCount: entry.ActualCount,
		Variance:    entry.ActualCount - systemStock,
	}
	if result.Variance == 0 {
		result.Status = StatusMatch
	} else {
		result.Status = StatusDiscrepancy
	}
	if entry.SystemStock != systemStock {
		return result, &StaleEntryError{
			PartNumber: live.PartNumber,
			EntryStock: entry.SystemStock,
			LiveStock:  systemStock,
		}
	}
	return result, nil
}

// WasPhantom reports whether a count confirms phantom inventory: the system
// record strictly overcounts the physical count. Equal stock or an overage
// never confirms a phantom, even though an overage is still a discrepancy.
func WasPhantom(systemStock, actualCount int) bool {
	return systemStock > actualCount
}

// ShrinkValue is the audit value of confirmed shortage: unit cost multiplied
// by the number of missing units. Matches and overages value at zero.
func ShrinkValue(result Result, unitCost decimal.Decimal) decimal.Decimal {
	if result.Variance >= 0 {
		return decimal.Zero
	}
	missing := decimal.NewFromInt(int64(-result.Variance))
	return unitCost.Mul(missing)
}
