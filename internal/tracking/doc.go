// Package tracking records per-item verification input across an
// interruptible, multi-session count workflow.
//
// Entries are created lazily the first time staff touch an item on the active
// sheet, defaulting the actual count to the system stock snapshotted at that
// moment. Every mutation flows through the Tracker so counts can never go
// negative and callers know exactly when persistence is required.
package tracking
