// Package validation derives count variances and match status from tracked
// entries.
//
// Evaluate is a pure computation: it performs no I/O and stores nothing. The
// live candidate record always wins over the stock snapshot cached inside a
// tracking entry; when the two diverge the result is computed from the live
// value and the divergence surfaces as a typed StaleEntryError.
//
// Display status and phantom confirmation are deliberately separate notions.
// Any nonzero variance is a discrepancy for display, but a phantom is
// confirmed only when the system overcounts (system stock strictly greater
// than the physical count). Overages are discrepancies without being phantoms.
package validation
