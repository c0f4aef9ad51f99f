package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfcheck/internal/tracking"
	"shelfcheck/internal/workflow"
)

func newCountCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count <part> <quantity>",
		Short: "Record the physically counted quantity for an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				part := strings.TrimSpace(args[0])
				quantity, err := strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				entry, err := engine.RecordCount(ctx, part, quantity)
				if err != nil {
					return err
				}
				printEntry(cmd, entry)
				return nil
			})
		},
	}
}

func newAdjustCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <part> <+|->",
		Short: "Step an item's counted quantity up or down by one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				part := strings.TrimSpace(args[0])
				delta, err := parseDelta(args[1])
				if err != nil {
					return err
				}
				entry, err := engine.AdjustCount(ctx, part, delta)
				if err != nil {
					return err
				}
				printEntry(cmd, entry)
				return nil
			})
		},
	}
}

func newNoteCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "note <part> <text...>",
		Short: "Attach a note to an item's tracking entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				part := strings.TrimSpace(args[0])
				note := strings.Join(args[1:], " ")
				entry, err := engine.RecordNotes(ctx, part, note)
				if err != nil {
					return err
				}
				printEntry(cmd, entry)
				return nil
			})
		},
	}
}

func newVerifyCommand(cmdCtx *commandContext) *cobra.Command {
	var verifiedBy string

	cmd := &cobra.Command{
		Use:   "verify <part>",
		Short: "Mark an item's count as physically verified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				entry, err := engine.MarkVerified(ctx, strings.TrimSpace(args[0]), verifiedBy)
				if err != nil {
					return err
				}
				printEntry(cmd, entry)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&verifiedBy, "by", "", "Name of the person who verified the count")
	return cmd
}

func newResetCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <sheet>",
		Short: "Reset every entry on a sheet to system stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				sheetID, err := parseSheetID(args[0])
				if err != nil {
					return err
				}
				if err := engine.ResetSheet(ctx, sheetID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sheet %d reset\n", sheetID)
				return nil
			})
		},
	}
}

func printEntry(cmd *cobra.Command, entry *tracking.Entry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: counted %d (system %d)", entry.PartNumber, entry.ActualCount, entry.SystemStock)
	if entry.Verified {
		fmt.Fprint(out, ", verified")
		if entry.VerifiedBy != "" {
			fmt.Fprintf(out, " by %s", entry.VerifiedBy)
		}
	}
	if entry.Notes != "" {
		fmt.Fprintf(out, "\n  note: %s", entry.Notes)
	}
	fmt.Fprintln(out)
}

func parseDelta(arg string) (int, error) {
	switch strings.TrimSpace(arg) {
	case "+", "up":
		return 1, nil
	case "-", "down":
		return -1, nil
	default:
		if delta, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
			return delta, nil
		}
		return 0, fmt.Errorf("invalid adjustment %q (use + or -)", arg)
	}
}
