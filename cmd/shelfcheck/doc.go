// Package main hosts the shelfcheck CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into workflow
// engine calls: starting an analysis run from a scored snapshot, recording
// physical counts, resetting or finalizing verification sheets, and
// inspecting saved state. It centralizes configuration resolution, store
// access, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
