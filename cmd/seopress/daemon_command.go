package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seopress/internal/daemon"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler and run cycles until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipPreflight {
				if err := daemon.Preflight(runCtx, svc.wordpress, svc.tmdb, len(svc.cfg.Gemini.APIKeys)); err != nil {
					return err
				}
			}

			d, err := daemon.New(svc.cfg, svc.optimizer, svc.logger)
			if err != nil {
				return err
			}
			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seopress started (lock %s), interval %d minutes\n",
				d.LockPath(), svc.cfg.Scheduler.IntervalMinutes)

			<-runCtx.Done()
			d.Stop()
			fmt.Fprintln(cmd.OutOrStdout(), "seopress stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip upstream connectivity checks on startup")
	return cmd
}
