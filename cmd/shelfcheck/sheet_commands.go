package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfcheck/internal/workflow"
)

func newSheetsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List the run's verification sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				state := engine.State()
				if state == nil {
					return workflow.ErrNoActiveRun
				}
				if len(state.Sheets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "All sheets completed")
					return nil
				}
				printSheets(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}
}

func newSheetCommand(cmdCtx *commandContext) *cobra.Command {
	sheetCmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect and select verification sheets",
	}
	sheetCmd.AddCommand(newSheetShowCommand(cmdCtx))
	sheetCmd.AddCommand(newSheetSelectCommand(cmdCtx))
	sheetCmd.AddCommand(newSheetPrefillCommand(cmdCtx))
	return sheetCmd
}

func newSheetShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [sheet]",
		Short: "Show a sheet's items with recorded counts and variances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				state := engine.State()
				if state == nil {
					return workflow.ErrNoActiveRun
				}

				sheetID := state.SelectedSheet
				if len(args) == 1 {
					parsed, err := parseSheetID(args[0])
					if err != nil {
						return err
					}
					sheetID = parsed
				}
				return printSheetDetail(cmd, engine, sheetID)
			})
		},
	}
}

func newSheetSelectCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <sheet>",
		Short: "Select the sheet shown by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				sheetID, err := parseSheetID(args[0])
				if err != nil {
					return err
				}
				selected, err := engine.SelectSheet(ctx, sheetID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected sheet %d (%d items, %s)\n",
					selected.ID, selected.ItemCount, selected.Status)
				return nil
			})
		},
	}
}

func newSheetPrefillCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prefill",
		Short: "Create default entries for every item on the active sheet",
		Long: "Creates a tracking entry at system stock for every untouched item on the " +
			"active sheet so a printed count sheet lists all items. Prefilled items no " +
			"longer count as implicit matches at finalization.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				if err := engine.PrefillSheet(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Prefilled active sheet")
				return nil
			})
		},
	}
}

func printSheetDetail(cmd *cobra.Command, engine *workflow.Engine, sheetID int) error {
	state := engine.State()
	results, err := engine.EvaluateSheet(sheetID)
	if err != nil {
		return err
	}

	byPart := make(map[string]int, len(results))
	for i, res := range results {
		byPart[res.Result.PartNumber] = i
	}

	var target []string
	for _, sh := range state.Sheets {
		if sh.ID == sheetID {
			target = sh.PartNumbers
			break
		}
	}

	rows := make([][]string, 0, len(target))
	staleParts := make([]string, 0)
	for _, part := range target {
		live, _ := state.Candidates.ByPart(part)
		row := []string{
			part,
			live.Description,
			strconv.Itoa(live.CurrentStock),
			"-", "-", "-",
			fmt.Sprintf("%.0f", live.RiskScore),
			strings.Join(live.RiskFactors, ", "),
		}
		if i, tracked := byPart[part]; tracked {
			res := results[i]
			row[3] = strconv.Itoa(res.Result.ActualCount)
			row[4] = strconv.Itoa(res.Result.Variance)
			row[5] = string(res.Result.Status)
			if res.Stale != nil {
				staleParts = append(staleParts, part)
			}
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	table := renderTable(
		[]string{"Part", "Description", "Stock", "Counted", "Variance", "Result", "Risk", "Factors"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft},
	)
	fmt.Fprintln(out, table)
	if len(staleParts) > 0 {
		fmt.Fprintf(out, "Warning: stale entries recomputed from live stock: %s\n", strings.Join(staleParts, ", "))
	}
	return nil
}

func parseSheetID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid sheet id %q", arg)
	}
	return id, nil
}
