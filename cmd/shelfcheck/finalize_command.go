package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shelfcheck/internal/services"
	"shelfcheck/internal/workflow"
)

func newFinalizeCommand(cmdCtx *commandContext) *cobra.Command {
	var sheetFlag int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Submit the active sheet's results and advance to the next sheet",
		Long: "Collects the active sheet's verification results, submits them to the " +
			"learning service, marks the sheet completed, and activates the next pending " +
			"sheet. Items never touched count as matching their system stock. A failed " +
			"submission leaves the run exactly where it was.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				state := engine.State()
				if state == nil {
					return workflow.ErrNoActiveRun
				}
				sheetID := sheetFlag
				if !cmd.Flags().Changed("sheet") {
					active := state.ActiveSheet()
					if active == nil {
						return fmt.Errorf("no active sheet to finalize")
					}
					sheetID = active.ID
				}

				summary, err := engine.Finalize(ctx, sheetID)
				if err != nil {
					if services.Retryable(err) {
						return fmt.Errorf("%w\nThe sheet is untouched; run finalize again once the service recovers", err)
					}
					return err
				}
				if asJSON {
					return writeJSON(cmd, summary)
				}

				out := cmd.OutOrStdout()
				printSummary(out, summary)
				if !summary.HasNextSheet {
					fmt.Fprintln(out, "All sheets verified; results retained for the validation view")
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&sheetFlag, "sheet", 0, "Sheet to finalize (defaults to the active sheet)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable output")
	return cmd
}
