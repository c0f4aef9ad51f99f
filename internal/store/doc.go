// Package store persists workflow state in SQLite so a verification session
// survives process restarts.
//
// Each analysis run saves its serialized state under its own namespace; a
// current-workflow pointer selects which namespace resumes by default.
// Writes are synchronous; when SaveState returns, the state is on disk.
// The payload is opaque to this package. Schema changes bump the version in
// schema.go; users clear the database to adopt the new schema.
package store
