package candidate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoverType classifies how quickly an item normally sells.
type MoverType string

const (
	MoverFast MoverType = "fast"
	MoverSlow MoverType = "slow"
)

// HighRiskThreshold is the risk score above which an item counts as high
// priority on a verification sheet.
const HighRiskThreshold = 70.0

// ParseMoverType converts a string into a known MoverType.
func ParseMoverType(value string) (MoverType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "fast", "fast-mover", "fast_mover":
		return MoverFast, true
	case "slow", "slow-mover", "slow_mover":
		return MoverSlow, true
	default:
		return "", false
	}
}

// Candidate is a single item flagged by the analysis pass as possible phantom
// inventory. Identity is the part number, unique within a Set.
type Candidate struct {
	PartNumber   string          `json:"part_number"`
	Description  string          `json:"description"`
	CurrentStock int             `json:"current_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	RiskScore    float64         `json:"risk_score"`
	RiskFactors  []string        `json:"risk_factors,omitempty"`
	MoverType    MoverType       `json:"mover_type"`
}

// HighRisk reports whether the candidate exceeds the high-priority threshold.
func (c Candidate) HighRisk() bool {
	return c.RiskScore > HighRiskThreshold
}

// Set is the ordered output of one analysis run.
type Set struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	TotalItems  int         `json:"total_items"`
	Items       []Candidate `json:"items"`
}

// Len returns the number of candidates in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// ByPart returns the live candidate for a part number.
func (s *Set) ByPart(partNumber string) (Candidate, bool) {
	if s == nil {
		return Candidate{}, false
	}
	for _, item := range s.Items {
		if item.PartNumber == partNumber {
			return item, true
		}
	}
	return Candidate{}, false
}
