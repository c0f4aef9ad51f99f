package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfcheck/internal/candidate"
	"shelfcheck/internal/config"
	"shelfcheck/internal/services/analysis"
	"shelfcheck/internal/workflow"
)

func newStartCommand(cmdCtx *commandContext) *cobra.Command {
	var inputPath string
	var sheetSize int
	var storeID string
	var snapshotID string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new analysis run from a scored candidate snapshot",
		Long: "Loads a scored candidate snapshot, partitions it into verification sheets, " +
			"and activates the first sheet. Candidates come from a snapshot file (--input) " +
			"or from the configured analysis service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				set, err := loadCandidates(ctx, cmdCtx, inputPath, storeID, snapshotID)
				if err != nil {
					return err
				}
				state, err := engine.StartNewAnalysis(ctx, set, sheetSize)
				if err != nil {
					if errors.Is(err, candidate.ErrEmptySet) {
						fmt.Fprintln(cmd.OutOrStdout(), "No candidates to verify; nothing to do")
						return nil
					}
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Started run %s with %d candidates across %d sheets\n",
					state.RunID, state.Candidates.Len(), len(state.Sheets))
				printSheets(out, state)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to a scored candidate snapshot file")
	cmd.Flags().IntVar(&sheetSize, "sheet-size", 0, "Maximum items per verification sheet (defaults to configuration)")
	cmd.Flags().StringVar(&storeID, "store-id", "", "Store identifier passed to the analysis service")
	cmd.Flags().StringVar(&snapshotID, "snapshot-id", "", "Inventory snapshot the analysis service should score")
	return cmd
}

func loadCandidates(ctx context.Context, cmdCtx *commandContext, inputPath, storeID, snapshotID string) (*candidate.Set, error) {
	if path := strings.TrimSpace(inputPath); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, err
		}
		return analysis.LoadSnapshotFile(expanded)
	}

	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	client := analysis.NewConfiguredClient(cfg)
	if client == nil {
		return nil, errors.New("no snapshot file given and no analysis service configured; pass --input or set [analysis] url")
	}
	return client.GetCandidates(ctx, analysis.SnapshotRef{StoreID: storeID, SnapshotID: snapshotID})
}
