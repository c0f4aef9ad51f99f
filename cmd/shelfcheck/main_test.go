package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfcheck/internal/services/analysis"
	"shelfcheck/internal/testsupport"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	snapshotPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[sheets]
max_items_per_sheet = 5
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	set := testsupport.NewCandidateSet(t, 12)
	payload, err := analysis.EncodeSnapshot(set)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	snapshotPath := filepath.Join(base, "snapshot.json")
	if err := os.WriteFile(snapshotPath, payload, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	return &cliTestEnv{
		baseDir:      base,
		configPath:   configPath,
		snapshotPath: snapshotPath,
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

func TestVerificationFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "start", "--input", env.snapshotPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	requireContains(t, out, "Started run")
	requireContains(t, out, "3 sheets")

	out, err = runCLI(t, env, "count", "P-001", "0")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	requireContains(t, out, "P-001: counted 0 (system 1)")

	out, err = runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "0 of 3 sheets completed")
	requireContains(t, out, "Tracked:   1 entries")

	out, err = runCLI(t, env, "sheet", "show", "0")
	if err != nil {
		t.Fatalf("sheet show: %v", err)
	}
	requireContains(t, out, "P-001")
	requireContains(t, out, "discrepancy")

	out, err = runCLI(t, env, "finalize")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	requireContains(t, out, "Phantoms found:    1")
	requireContains(t, out, "Implicit matches:  4")
	requireContains(t, out, "Next sheet:        1")

	out, err = runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status after finalize: %v", err)
	}
	requireContains(t, out, "1 of 3 sheets completed")
	requireContains(t, out, "View:      verification")
	requireContains(t, out, "Tracked:   5 entries")
}

func TestEditOffActiveSheetFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "start", "--input", env.snapshotPath); err != nil {
		t.Fatalf("start: %v", err)
	}
	// P-006 is on pending sheet 1.
	if _, err := runCLI(t, env, "count", "P-006", "2"); err == nil {
		t.Fatal("expected rejection of an edit on a pending sheet")
	}
}

func TestStatusWithoutRun(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No analysis run in progress")
}

func TestStartRequiresInputOrService(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "start"); err == nil {
		t.Fatal("expected start to fail without a snapshot source")
	}
}

func TestClearRequiresAllFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "clear"); err == nil {
		t.Fatal("expected clear to refuse without --all")
	}

	if _, err := runCLI(t, env, "start", "--input", env.snapshotPath); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := runCLI(t, env, "clear", "--all")
	if err != nil {
		t.Fatalf("clear --all: %v", err)
	}
	requireContains(t, out, "Deleted 1 saved run(s)")
}

func TestConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "fresh", "config.toml")
	out, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, statErr := os.Stat(target); statErr != nil {
		t.Fatalf("expected config file at %s: %v", target, statErr)
	}

	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
}

func TestRunsAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "start", "--input", env.snapshotPath); err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := runCLI(t, env, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "run:")

	out, err = runCLI(t, env, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Saved runs")
}
