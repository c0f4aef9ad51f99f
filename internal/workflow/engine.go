package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/config"
	"shelfcheck/internal/logging"
	"shelfcheck/internal/services"
	"shelfcheck/internal/services/learning"
	"shelfcheck/internal/sheet"
	"shelfcheck/internal/store"
	"shelfcheck/internal/tracking"
	"shelfcheck/internal/validation"
)

// ErrNoActiveRun indicates a command that needs a run before one was started.
var ErrNoActiveRun = errors.New("no active analysis run")

// Engine owns the workflow state for one analysis run and serializes every
// mutating command behind a process-wide file lock.
type Engine struct {
	cfg      *config.Config
	store    *store.Store
	logger   *slog.Logger
	learning learning.Client
	lock     *flock.Flock
	state    *State
}

// Open acquires the workflow lock and resumes the most recent run from the
// store if one exists. Callers must Close the engine to release the lock.
func Open(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger, client learning.Client) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if client == nil {
		client = learning.NewConfiguredClient(cfg)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "shelfcheck.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "open", "acquire workflow lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "open", "another shelfcheck process holds the workflow lock", nil)
	}

	engine := &Engine{
		cfg:      cfg,
		store:    st,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		learning: client,
		lock:     lock,
	}
	if err := engine.resume(ctx); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return engine, nil
}

// Close releases the workflow lock. The store is owned by the caller.
func (e *Engine) Close() error {
	if e.lock != nil {
		return e.lock.Unlock()
	}
	return nil
}

func (e *Engine) resume(ctx context.Context) error {
	namespace, err := e.store.Current(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	payload, err := e.store.LoadState(ctx, namespace)
	if err != nil {
		return err
	}
	state, err := UnmarshalState(payload)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "workflow", "resume", "decode saved state", err)
	}
	e.state = state
	e.logger.Info("resumed run",
		logging.String(logging.FieldRunID, state.RunID),
		logging.String(logging.FieldView, string(state.CurrentView)),
		logging.Int("sheets", len(state.Sheets)),
		logging.Int("completed", sheet.CompletedCount(state.Sheets)))
	return nil
}

// State returns the current in-memory state, or nil before a run starts.
// The returned value is live; callers must not mutate it.
func (e *Engine) State() *State {
	return e.state
}

// requireState fails commands that need an active run.
func (e *Engine) requireState() (*State, error) {
	if e.state == nil {
		return nil, ErrNoActiveRun
	}
	return e.state, nil
}

// commit persists the candidate next state and only then replaces the
// in-memory state. A failed save leaves the previous state fully intact.
func (e *Engine) commit(ctx context.Context, next *State) error {
	if err := next.Verify(); err != nil {
		return services.Wrap(services.ErrValidation, "workflow", "commit", "state invariant violated", err)
	}
	next.UpdatedAt = nowUTC()
	payload, err := next.Marshal()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "workflow", "commit", "encode state", err)
	}
	if err := e.store.SaveState(ctx, next.Namespace(), payload); err != nil {
		return err
	}
	e.state = next
	return nil
}

// StartNewAnalysis validates and stores a fresh candidate set, partitions it
// into count sheets, and activates the first sheet. Any prior run's state
// stays in the store under its own namespace; the current pointer moves to
// the new run.
func (e *Engine) StartNewAnalysis(ctx context.Context, set *candidate.Set, maxItems int) (*State, error) {
	if set == nil {
		return nil, services.Wrap(services.ErrValidation, "workflow", "start", "candidate set is nil", nil)
	}
	if err := set.Validate(); err != nil {
		if errors.Is(err, candidate.ErrEmptySet) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrValidation, "workflow", "start", "invalid candidate set", err)
	}
	if maxItems <= 0 {
		maxItems = e.cfg.Sheets.MaxItemsPerSheet
	}
	sheets, err := sheet.Partition(set, maxItems)
	if err != nil {
		return nil, err
	}

	// Entries stay lazy: an item untouched through finalization counts as an
	// implicit match, and only touched items carry tracking state.
	next := newState(set, sheets)
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	if err := e.store.SetCurrent(ctx, next.Namespace()); err != nil {
		return nil, err
	}
	e.logger.Info("started analysis run",
		logging.String(logging.FieldRunID, next.RunID),
		logging.Int("items", set.Len()),
		logging.Int("sheets", len(sheets)),
		logging.Int("sheet_size", maxItems))
	return e.state, nil
}

// SelectView records the user's current screen.
func (e *Engine) SelectView(ctx context.Context, view View) error {
	state, err := e.requireState()
	if err != nil {
		return err
	}
	next, err := state.clone()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "workflow", "select-view", "clone state", err)
	}
	next.CurrentView = view
	return e.commit(ctx, next)
}

// SelectSheet changes which sheet the user is viewing. Any sheet may be
// viewed; only the active sheet accepts edits.
func (e *Engine) SelectSheet(ctx context.Context, id int) (*sheet.Sheet, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	selected, err := sheet.Find(state.Sheets, id)
	if err != nil {
		return nil, err
	}
	next, err := state.clone()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "workflow", "select-sheet", "clone state", err)
	}
	next.SelectedSheet = id
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return selected, nil
}

// editableSheet resolves the sheet a part may currently be edited on. Edits
// are restricted to the active sheet; touching a part on a pending or
// completed sheet is rejected.
func editableSheet(state *State, partNumber string) (*sheet.Sheet, error) {
	active := state.ActiveSheet()
	if active == nil {
		return nil, fmt.Errorf("no active sheet")
	}
	if !active.Contains(partNumber) {
		return nil, fmt.Errorf("part %q is not on the active sheet %d", partNumber, active.ID)
	}
	return active, nil
}

// RecordCount sets the physically counted quantity for a part on the active
// sheet. Negative counts clamp to zero.
func (e *Engine) RecordCount(ctx context.Context, partNumber string, count int) (*tracking.Entry, error) {
	return e.upsert(ctx, partNumber, tracking.FieldActualCount, count)
}

// RecordNotes attaches free-form notes to a part's entry.
func (e *Engine) RecordNotes(ctx context.Context, partNumber, notes string) (*tracking.Entry, error) {
	return e.upsert(ctx, partNumber, tracking.FieldNotes, notes)
}

// MarkVerified flags a part's entry as physically verified and stamps the
// verification time. An empty verifiedBy keeps any existing attribution.
func (e *Engine) MarkVerified(ctx context.Context, partNumber, verifiedBy string) (*tracking.Entry, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	if _, err := editableSheet(state, partNumber); err != nil {
		return nil, err
	}
	next, err := state.clone()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "workflow", "verify", "clone state", err)
	}
	tracker := next.Tracker()
	if strings.TrimSpace(verifiedBy) != "" {
		if _, err := tracker.Upsert(partNumber, tracking.FieldVerifiedBy, verifiedBy); err != nil {
			return nil, err
		}
	}
	entry, err := tracker.Upsert(partNumber, tracking.FieldVerified, true)
	if err != nil {
		return nil, err
	}
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return entry, nil
}

// AdjustCount steps a part's actual count by one in the direction of delta.
func (e *Engine) AdjustCount(ctx context.Context, partNumber string, delta int) (*tracking.Entry, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	if _, err := editableSheet(state, partNumber); err != nil {
		return nil, err
	}
	next, err := state.clone()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "workflow", "adjust", "clone state", err)
	}
	entry, err := next.Tracker().AdjustByDelta(partNumber, delta)
	if err != nil {
		return nil, err
	}
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *Engine) upsert(ctx context.Context, partNumber string, field tracking.Field, value any) (*tracking.Entry, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	if _, err := editableSheet(state, partNumber); err != nil {
		return nil, err
	}
	next, err := state.clone()
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "workflow", "record", "clone state", err)
	}
	entry, err := next.Tracker().Upsert(partNumber, field, value)
	if err != nil {
		return nil, err
	}
	if err := e.commit(ctx, next); err != nil {
		return nil, err
	}
	return entry, nil
}

// PrefillSheet creates default entries for every untouched item on the
// active sheet. Useful before printing a count sheet that should list every
// item; it trades away implicit-match detection for those items.
func (e *Engine) PrefillSheet(ctx context.Context) error {
	state, err := e.requireState()
	if err != nil {
		return err
	}
	active := state.ActiveSheet()
	if active == nil {
		return fmt.Errorf("no active sheet")
	}
	next, err := state.clone()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "workflow", "prefill", "clone state", err)
	}
	if err := next.Tracker().SeedSheet(next.ActiveSheet()); err != nil {
		return err
	}
	return e.commit(ctx, next)
}

// ResetSheet restores every entry on the named sheet to its system stock
// with notes and verification cleared. Only the active sheet may be reset;
// entries on other sheets are untouched.
func (e *Engine) ResetSheet(ctx context.Context, sheetID int) error {
	state, err := e.requireState()
	if err != nil {
		return err
	}
	target, err := sheet.Find(state.Sheets, sheetID)
	if err != nil {
		return err
	}
	if target.Status != sheet.StatusActive {
		return fmt.Errorf("sheet %d is %s; only the active sheet can be reset", sheetID, target.Status)
	}
	next, err := state.clone()
	if err != nil {
		return services.Wrap(services.ErrPersistence, "workflow", "reset", "clone state", err)
	}
	resetTarget, err := sheet.Find(next.Sheets, sheetID)
	if err != nil {
		return err
	}
	if err := next.Tracker().ResetSheet(resetTarget); err != nil {
		return err
	}
	if err := e.commit(ctx, next); err != nil {
		return err
	}
	e.logger.Info("reset sheet",
		logging.String(logging.FieldRunID, state.RunID),
		logging.Int(logging.FieldSheetID, sheetID))
	return nil
}

// SheetResult pairs a validation result with its staleness signal for
// display. Stale is non-nil when the entry snapshot disagreed with the live
// candidate stock; the result is still computed from the live value.
type SheetResult struct {
	Result validation.Result
	Stale  *validation.StaleEntryError
}

// EvaluateSheet computes validation results for every tracked entry on the
// given sheet, in sheet order.
func (e *Engine) EvaluateSheet(sheetID int) ([]SheetResult, error) {
	state, err := e.requireState()
	if err != nil {
		return nil, err
	}
	target, err := sheet.Find(state.Sheets, sheetID)
	if err != nil {
		return nil, err
	}
	entries := state.Tracker().EntriesFor(target)
	results := make([]SheetResult, 0, len(entries))
	for _, entry := range entries {
		live, ok := state.Candidates.ByPart(entry.PartNumber)
		if !ok {
			return nil, fmt.Errorf("entry %q has no candidate", entry.PartNumber)
		}
		result, evalErr := validation.Evaluate(entry, live)
		sr := SheetResult{Result: result}
		if evalErr != nil {
			var stale *validation.StaleEntryError
			if !errors.As(evalErr, &stale) {
				return nil, evalErr
			}
			sr.Stale = stale
			e.logger.Warn("stale tracking entry",
				logging.String(logging.FieldPartNumber, entry.PartNumber),
				logging.Int("entry_stock", stale.EntryStock),
				logging.Int("live_stock", stale.LiveStock))
		}
		results = append(results, sr)
	}
	return results, nil
}

// ClearSaved deletes every persisted run along with the current pointer and
// drops the in-memory state.
func (e *Engine) ClearSaved(ctx context.Context) (int64, error) {
	removed, err := e.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	e.state = nil
	e.logger.Info("cleared saved state", logging.Int("runs", int(removed)))
	return removed, nil
}
