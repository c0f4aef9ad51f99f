package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfcheck/internal/workflow"
)

func newViewCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "view <setup|analysis|verification|validation>",
		Short: "Switch the workflow view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withEngine(cmd, func(ctx context.Context, engine *workflow.Engine) error {
				view, ok := workflow.ParseView(args[0])
				if !ok {
					return fmt.Errorf("unknown view %q", strings.TrimSpace(args[0]))
				}
				if err := engine.SelectView(ctx, view); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s view\n", view)
				return nil
			})
		},
	}
}
