package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes a status or finalization report as indented JSON to the
// command's stdout. Used by the --json flags for scripted store audits.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
