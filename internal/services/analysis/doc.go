// Package analysis fetches phantom-candidate sets from the external scoring
// service.
//
// The engine never computes risk scores; it consumes the scorer's output
// either over HTTP or from a JSON snapshot file exported by the analysis
// pass. Both paths produce a validated candidate.Set.
package analysis
