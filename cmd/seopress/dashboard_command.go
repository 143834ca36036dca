package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seopress/internal/dashboard"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the monitoring dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			server := dashboard.New(svc.cfg, svc.store, svc.wordpress, svc.optimizer,
				svc.ledger, svc.wordpress, svc.tmdb, svc.logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "dashboard listening on %s\n", svc.cfg.Dashboard.Bind)
			return server.Run(runCtx)
		},
	}
}
