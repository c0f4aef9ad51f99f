package services_test

import (
	"errors"
	"strings"
	"testing"

	"shelfcheck/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "learning", "submit", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"learning", "submit", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "store", "save", "write failed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"external", services.Wrap(services.ErrExternalService, "learning", "submit", "503", nil), true},
		{"persistence", services.Wrap(services.ErrPersistence, "store", "save", "disk", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "learning", "submit", "timeout", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "engine", "count", "bad part", nil), false},
		{"not found", services.Wrap(services.ErrNotFound, "store", "load", "missing", nil), false},
		{"configuration", services.Wrap(services.ErrConfiguration, "engine", "open", "no data dir", nil), false},
		{"unmarked", errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := services.Retryable(tc.err); got != tc.retryable {
			t.Fatalf("%s: expected retryable=%v, got %v", tc.name, tc.retryable, got)
		}
	}
}
