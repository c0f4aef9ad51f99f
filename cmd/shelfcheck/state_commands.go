package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"shelfcheck/internal/config"
	"shelfcheck/internal/services/analysis"
	"shelfcheck/internal/store"
	"shelfcheck/internal/workflow"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the run's candidate set as a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				state := engine.State()
				if state == nil {
					return workflow.ErrNoActiveRun
				}
				payload, err := analysis.EncodeSnapshot(state.Candidates)
				if err != nil {
					return err
				}
				target, err := config.ExpandPath(outputPath)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				if err := os.WriteFile(target, payload, 0o644); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d candidates to %s\n", state.Candidates.Len(), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "shelfcheck-snapshot.json", "Destination file for the snapshot")
	return cmd
}

func newRunsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				states, err := st.ListStates(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(states) == 0 {
					fmt.Fprintln(out, "No saved runs")
					return nil
				}
				rows := make([][]string, 0, len(states))
				for _, info := range states {
					rows = append(rows, []string{
						info.Namespace,
						info.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
						yesNo(info.Current),
					})
				}
				table := renderTable(
					[]string{"Run", "Updated", "Current"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func newHealthCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the workflow database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(cmd, func(ctx context.Context, st *store.Store) error {
				health, err := st.CheckHealth(ctx)
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Database", health.DBPath},
					{"Exists", yesNo(health.DatabaseExists)},
					{"Readable", yesNo(health.DatabaseReadable)},
					{"Saved runs", strconv.Itoa(health.SavedStates)},
					{"Has current run", yesNo(health.HasCurrent)},
					{"Integrity check", yesNo(health.IntegrityCheck)},
				}
				table := renderTable([]string{"Check", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
				fmt.Fprintln(out, table)
				if err != nil {
					return fmt.Errorf("workflow database unhealthy: %w", err)
				}
				return nil
			})
		},
	}
}

func newClearCommand(cmdCtx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved workflow state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all {
				return errors.New("refusing to delete saved runs without --all")
			}
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				removed, err := engine.ClearSaved(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d saved run(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Delete every saved run")
	return cmd
}
