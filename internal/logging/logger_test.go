package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfcheck/internal/logging"
)

func TestConsoleFormatIncludesComponentAndAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "engine")
	scoped.Info("count recorded", logging.Args(
		logging.String(logging.FieldPartNumber, "PN-1"),
		logging.Int("actual_count", 3),
	)...)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, fragment := range []string{"INFO", "engine: count recorded", "part_number=PN-1", "actual_count=3"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in log line %q", fragment, line)
		}
	}
}

func TestJSONFormatEmitsParsableRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("sheet finalized", logging.Args(logging.Int(logging.FieldSheetID, 2))...)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", string(data), err)
	}
	if record["msg"] != "sheet finalized" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Fatal("expected info record to be filtered")
	}
	if !strings.Contains(string(data), "loud") {
		t.Fatal("expected warn record to be written")
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
