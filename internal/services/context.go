package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	sheetIDKey    contextKey = "sheet_id"
	partNumberKey contextKey = "part_number"
)

// WithRunID annotates context with the analysis run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the analysis run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSheetID annotates context with the verification sheet identifier.
func WithSheetID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, sheetIDKey, id)
}

// SheetIDFromContext extracts the sheet identifier if present.
func SheetIDFromContext(ctx context.Context) (int, bool) {
	switch val := ctx.Value(sheetIDKey).(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}

// WithPartNumber annotates context with the part number being edited.
func WithPartNumber(ctx context.Context, part string) context.Context {
	if part == "" {
		return ctx
	}
	return context.WithValue(ctx, partNumberKey, part)
}

// PartNumberFromContext extracts the part number if present.
func PartNumberFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(partNumberKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
