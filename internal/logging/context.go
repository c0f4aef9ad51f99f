package logging

import (
	"context"
	"log/slog"

	"shelfcheck/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for analysis run identifiers.
	FieldRunID = "run_id"
	// FieldSheetID is the standardized structured logging key for verification sheet identifiers.
	FieldSheetID = "sheet_id"
	// FieldPartNumber is the standardized structured logging key for candidate part numbers.
	FieldPartNumber = "part_number"
	// FieldView is the standardized structured logging key for the workflow view.
	FieldView = "view"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := services.SheetIDFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldSheetID, id))
	}
	if part, ok := services.PartNumberFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPartNumber, part))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
