// Package learning submits finalized verification results to the external
// learning service and interprets its progression decision.
//
// The HTTP client posts a sheet's validation records and returns updated
// accuracy metrics plus the sheet-completion decision. When no endpoint is
// configured, a deterministic local client stands in so the workflow remains
// usable offline; all engine code depends only on the Client interface.
package learning
