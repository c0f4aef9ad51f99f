// Package sheet partitions a candidate set into bounded verification sheets
// and owns their lifecycle.
//
// A sheet is a contiguous slice of the candidate set assigned for one round of
// physical counting. Exactly one sheet is active at a time between partitioning
// and workflow completion; status transitions happen only through AdvanceFrom
// so retries after a crash cannot skip a sheet.
package sheet
