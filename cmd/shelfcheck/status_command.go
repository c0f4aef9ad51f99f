package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"shelfcheck/internal/sheet"
	"shelfcheck/internal/workflow"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current run, its sheets, and verification progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				state := engine.State()
				out := cmd.OutOrStdout()
				if state == nil {
					if asJSON {
						return writeJSON(cmd, map[string]any{"active_run": false})
					}
					fmt.Fprintln(out, "No analysis run in progress; start one with `shelfcheck start`")
					return nil
				}
				if asJSON {
					return writeJSON(cmd, state)
				}

				fmt.Fprintf(out, "Run:       %s\n", state.RunID)
				fmt.Fprintf(out, "View:      %s\n", state.CurrentView)
				fmt.Fprintf(out, "Items:     %d (of %d scanned)\n", state.Candidates.Len(), state.Candidates.TotalItems)
				fmt.Fprintf(out, "Completed: %s\n", yesNo(state.AllCompleted))
				fmt.Fprintf(out, "Tracked:   %d entries\n", len(state.Entries))

				if len(state.Sheets) > 0 {
					fmt.Fprintln(out)
					printSheets(out, state)
				}
				if state.LastSummary != nil {
					fmt.Fprintln(out)
					printSummary(out, state.LastSummary)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable output")
	return cmd
}

const (
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

func printSheets(out io.Writer, state *workflow.State) {
	colorize := isTerminal(out)
	rows := make([][]string, 0, len(state.Sheets))
	for _, sh := range state.Sheets {
		marker := ""
		if sh.ID == state.SelectedSheet {
			marker = "*"
		}
		status := string(sh.Status)
		if colorize && sh.Status == sheet.StatusActive {
			status = ansiGreen + status + ansiReset
		}
		rows = append(rows, []string{
			strconv.Itoa(sh.ID),
			strconv.Itoa(sh.ItemCount),
			strconv.Itoa(sh.HighPriorityCount),
			status,
			marker,
		})
	}
	table := renderTable(
		[]string{"Sheet", "Items", "High Priority", "Status", "Selected"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "%d of %d sheets completed\n", sheet.CompletedCount(state.Sheets), len(state.Sheets))
}

func printSummary(out io.Writer, summary *workflow.FinalizationSummary) {
	fmt.Fprintf(out, "Last finalized sheet: %d\n", summary.SheetID)
	fmt.Fprintf(out, "  Items processed:   %d\n", summary.ItemsProcessed)
	fmt.Fprintf(out, "  Phantoms found:    %d\n", summary.PhantomsConfirmed)
	fmt.Fprintf(out, "  Implicit matches:  %d\n", summary.ImplicitMatches)
	fmt.Fprintf(out, "  Shrink value:      %s\n", summary.ShrinkValue.StringFixed(2))
	fmt.Fprintf(out, "  Scoring accuracy:  %.0f%%\n", summary.Accuracy*100)
	fmt.Fprintf(out, "  Learning gain:     %.2f\n", summary.LearningImprovement)
	if summary.HasNextSheet {
		fmt.Fprintf(out, "  Next sheet:        %d\n", summary.NextSheetID)
	} else {
		fmt.Fprintln(out, "  Next sheet:        none (run complete)")
	}
}
