package sheet

import (
	"strings"
)

// Status represents the lifecycle of a verification sheet.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

var allStatuses = []Status{
	StatusPending,
	StatusActive,
	StatusCompleted,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Sheet is a bounded batch of candidates assigned for one verification round.
// Items are referenced by part number; the candidate set stays the single
// owner of item data.
type Sheet struct {
	ID                int      `json:"id"`
	PartNumbers       []string `json:"part_numbers"`
	ItemCount         int      `json:"item_count"`
	HighPriorityCount int      `json:"high_priority_count"`
	Status            Status   `json:"status"`
}

// Contains reports whether the sheet covers the given part number.
func (s *Sheet) Contains(partNumber string) bool {
	if s == nil {
		return false
	}
	for _, part := range s.PartNumbers {
		if part == partNumber {
			return true
		}
	}
	return false
}
