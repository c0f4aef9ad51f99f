// Package logging builds slog loggers for the engine and CLI.
//
// Console output favors a compact human-readable line per record; JSON output
// targets log aggregation. Standardized field helpers keep run, sheet, and
// part identifiers consistent across components so a verification session can
// be traced end to end.
package logging
