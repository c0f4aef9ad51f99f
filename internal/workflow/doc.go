// Package workflow drives the verification and validation lifecycle for one
// phantom-inventory analysis run.
//
// The Engine owns the workflow state machine (setup, analysis, verification,
// validation) and exposes the command surface the CLI calls: start a run,
// record counts, reset or finalize sheets. Every mutating command builds the
// next state, persists it, and only then replaces the in-memory state, so a
// crash or a failed external call can never leave a half-applied mutation
// behind. Finalization submits a sheet's results to the learning service and
// advances the active sheet based on its decision.
package workflow
