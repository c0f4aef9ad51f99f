// Package config loads, normalizes, and validates shelfcheck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the engine and CLI need: data/log directories, sheet sizing, and external
// analysis/learning service endpoints.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
