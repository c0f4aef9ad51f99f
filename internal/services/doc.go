// Package services defines shared utilities consumed by the workflow engine
// and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate analysis,
//     learning, and persistence failures into a consistent taxonomy with a
//     retryable classification.
//   - Context helpers that stamp run IDs, sheet IDs, and part numbers for
//     logging and tracing.
//
// Use these helpers when wiring new engine operations so error handling and
// observability stay uniform across the workflow.
package services
