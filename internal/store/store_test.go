package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"shelfcheck/internal/store"
	"shelfcheck/internal/testsupport"
)

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := os.Stat(st.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestSaveAndLoadStateRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	payload := []byte(`{"run_id":"abc","sheets":3}`)
	if err := st.SaveState(ctx, "run:abc", payload); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, err := st.LoadState(ctx, "run:abc")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload round trip: got %s", got)
	}
}

func TestSaveStateOverwritesNamespace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveState(ctx, "run:abc", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first SaveState: %v", err)
	}
	if err := st.SaveState(ctx, "run:abc", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second SaveState: %v", err)
	}

	got, err := st.LoadState(ctx, "run:abc")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("expected latest payload, got %s", got)
	}
}

func TestNamespacesIsolateRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveState(ctx, "run:first", []byte(`{"v":"first"}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := st.SaveState(ctx, "run:second", []byte(`{"v":"second"}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, err := st.LoadState(ctx, "run:first")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if string(got) != `{"v":"first"}` {
		t.Fatalf("namespace bled: got %s", got)
	}

	states, err := st.ListStates(ctx)
	if err != nil {
		t.Fatalf("ListStates: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("ListStates returned %d, want 2", len(states))
	}
}

func TestLoadStateMissingNamespace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.LoadState(context.Background(), "run:missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurrentPointerFollowsSetCurrent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.Current(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any run, got %v", err)
	}

	if err := st.SaveState(ctx, "run:abc", []byte(`{}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := st.SetCurrent(ctx, "run:abc"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	namespace, err := st.Current(ctx)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if namespace != "run:abc" {
		t.Fatalf("current namespace %q", namespace)
	}
}

func TestDeleteStateClearsCurrentPointer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveState(ctx, "run:abc", []byte(`{}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := st.SetCurrent(ctx, "run:abc"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	removed, err := st.DeleteState(ctx, "run:abc")
	if err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if !removed {
		t.Fatal("DeleteState reported nothing removed")
	}
	if _, err := st.Current(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("current pointer survived deletion: %v", err)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, ns := range []string{"run:a", "run:b", "run:c"} {
		if err := st.SaveState(ctx, ns, []byte(`{}`)); err != nil {
			t.Fatalf("SaveState %s: %v", ns, err)
		}
	}
	if err := st.SetCurrent(ctx, "run:b"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	removed, err := st.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("Clear removed %d, want 3", removed)
	}
	if _, err := st.Current(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("current pointer survived clear: %v", err)
	}
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.SaveState(ctx, "run:abc", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := first.SetCurrent(ctx, "run:abc"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	namespace, err := second.Current(ctx)
	if err != nil {
		t.Fatalf("Current after reopen: %v", err)
	}
	if namespace != "run:abc" {
		t.Fatalf("current namespace %q after reopen", namespace)
	}
	if _, err := second.LoadState(ctx, namespace); err != nil {
		t.Fatalf("LoadState after reopen: %v", err)
	}
}

func TestCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveState(ctx, "run:abc", []byte(`{}`)); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("store unhealthy: %+v", health)
	}
	if health.SavedStates != 1 {
		t.Fatalf("health saved states %d, want 1", health.SavedStates)
	}
}
