package candidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptySet indicates an analysis run produced no candidates to verify.
// Callers should treat this as "nothing to verify" rather than a failure.
var ErrEmptySet = errors.New("candidate set is empty")

// NewSet builds a validated Set from scored items. TotalItems records the
// pre-filter count reported by the scorer; pass 0 to default it to len(items).
func NewSet(items []Candidate, totalItems int) (*Set, error) {
	if totalItems <= 0 {
		totalItems = len(items)
	}
	set := &Set{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		TotalItems:  totalItems,
		Items:       append([]Candidate(nil), items...),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks set-level invariants: at least one item, unique part
// numbers, non-negative stock, and risk scores within 0-100.
func (s *Set) Validate() error {
	if s.Len() == 0 {
		return ErrEmptySet
	}
	seen := make(map[string]struct{}, len(s.Items))
	for i, item := range s.Items {
		part := strings.TrimSpace(item.PartNumber)
		if part == "" {
			return fmt.Errorf("candidate %d: part number is empty", i)
		}
		if _, dup := seen[part]; dup {
			return fmt.Errorf("candidate %d: duplicate part number %q", i, part)
		}
		seen[part] = struct{}{}
		if item.CurrentStock < 0 {
			return fmt.Errorf("candidate %q: current stock %d is negative", part, item.CurrentStock)
		}
		if item.RiskScore < 0 || item.RiskScore > 100 {
			return fmt.Errorf("candidate %q: risk score %.1f outside 0-100", part, item.RiskScore)
		}
	}
	return nil
}

// snapshot is the wire shape of an analysis export.
type snapshot struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	TotalItems  int         `json:"total_items"`
	Items       []Candidate `json:"items"`
	// Candidates is accepted as an alias some exports use instead of items.
	Candidates []Candidate `json:"candidates"`
}

// DecodeSnapshot parses a JSON analysis export into a validated Set. Exports
// without a run identifier are assigned a fresh one.
func DecodeSnapshot(data []byte) (*Set, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode candidate snapshot: %w", err)
	}
	items := snap.Items
	if len(items) == 0 {
		items = snap.Candidates
	}
	set := &Set{
		RunID:       strings.TrimSpace(snap.RunID),
		GeneratedAt: snap.GeneratedAt,
		TotalItems:  snap.TotalItems,
		Items:       items,
	}
	if set.RunID == "" {
		set.RunID = uuid.NewString()
	}
	if set.GeneratedAt.IsZero() {
		set.GeneratedAt = time.Now().UTC()
	}
	if set.TotalItems <= 0 {
		set.TotalItems = len(items)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
