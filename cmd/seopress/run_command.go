package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seopress/internal/daemon"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single optimization cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			release, err := daemon.AcquireLock(svc.cfg)
			if err != nil {
				return err
			}
			defer release()

			report, err := svc.optimizer.RunCycle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"cycle %s: %d candidates, %d eligible, %d succeeded, %d failed, %d skipped\n",
				report.CycleID, report.Candidates, report.Eligible,
				report.Succeeded, report.Failed, report.Skipped)
			return nil
		},
	}
}

func newOptimizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <post-id>",
		Short: "Optimize a single post by its WordPress ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var postID int64
			if _, err := fmt.Sscanf(args[0], "%d", &postID); err != nil || postID <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			release, err := daemon.AcquireLock(svc.cfg)
			if err != nil {
				return err
			}
			defer release()

			if err := svc.optimizer.OptimizeOne(cmd.Context(), postID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "post %d optimized\n", postID)
			return nil
		},
	}
}
