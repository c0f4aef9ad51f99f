package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/sheet"
	"shelfcheck/internal/tracking"
)

// View identifies the workflow screen the user last selected.
type View string

const (
	ViewSetup        View = "setup"
	ViewAnalysis     View = "analysis"
	ViewVerification View = "verification"
	ViewValidation   View = "validation"
)

var allViews = []View{ViewSetup, ViewAnalysis, ViewVerification, ViewValidation}

// ParseView converts a string into a known View.
func ParseView(value string) (View, bool) {
	normalized := View(strings.ToLower(strings.TrimSpace(value)))
	for _, view := range allViews {
		if view == normalized {
			return normalized, true
		}
	}
	return "", false
}

// stateSchemaVersion guards serialized state against incompatible readers.
const stateSchemaVersion = 1

func nowUTC() time.Time {
	return time.Now().UTC()
}

// State is the session-spanning aggregate for one analysis run. It is
// serialized wholesale after every externally observable mutation and
// reconstructed entirely from the store on resume.
type State struct {
	SchemaVersion int                        `json:"schema_version"`
	RunID         string                     `json:"run_id"`
	CurrentView   View                       `json:"current_view"`
	Candidates    *candidate.Set             `json:"candidates,omitempty"`
	Sheets        []sheet.Sheet              `json:"sheets,omitempty"`
	SelectedSheet int                        `json:"selected_sheet"`
	Entries       map[string]*tracking.Entry `json:"entries"`
	LastSummary   *FinalizationSummary       `json:"last_summary,omitempty"`
	AllCompleted  bool                       `json:"all_completed"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

func newState(set *candidate.Set, sheets []sheet.Sheet) *State {
	return &State{
		SchemaVersion: stateSchemaVersion,
		RunID:         set.RunID,
		CurrentView:   ViewVerification,
		Candidates:    set,
		Sheets:        sheets,
		SelectedSheet: 0,
		Entries:       make(map[string]*tracking.Entry),
		UpdatedAt:     time.Now().UTC(),
	}
}

// Namespace returns the store key for this run's state.
func (s *State) Namespace() string {
	return "run:" + s.RunID
}

// Tracker returns a tracker bound to this state's candidates and entries.
func (s *State) Tracker() *tracking.Tracker {
	if s.Entries == nil {
		s.Entries = make(map[string]*tracking.Entry)
	}
	return tracking.NewTracker(s.Candidates, s.Entries)
}

// ActiveSheet returns the currently active sheet, if any.
func (s *State) ActiveSheet() *sheet.Sheet {
	return sheet.Active(s.Sheets)
}

// clone deep-copies the state through its serialized form. Serialization is
// the persistence format anyway, so the round trip is the copy that matters.
func (s *State) clone() (*State, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone workflow state: %w", err)
	}
	var copied State
	if err := json.Unmarshal(payload, &copied); err != nil {
		return nil, fmt.Errorf("clone workflow state: %w", err)
	}
	return &copied, nil
}

// Marshal serializes the state for persistence.
func (s *State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalState reconstructs a state from its serialized form.
func UnmarshalState(payload []byte) (*State, error) {
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode workflow state: %w", err)
	}
	if state.SchemaVersion != stateSchemaVersion {
		return nil, fmt.Errorf("workflow state schema version %d, expected %d", state.SchemaVersion, stateSchemaVersion)
	}
	if state.Entries == nil {
		state.Entries = make(map[string]*tracking.Entry)
	}
	return &state, nil
}

// Verify checks cross-entity invariants after a mutation: the single-active
// sheet rule and that every entry belongs to a known candidate.
func (s *State) Verify() error {
	if !s.AllCompleted {
		if err := sheet.Verify(s.Sheets); err != nil {
			return err
		}
	}
	for part := range s.Entries {
		if _, ok := s.Candidates.ByPart(part); !ok {
			return fmt.Errorf("entry %q has no candidate", part)
		}
	}
	return nil
}
