package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var checkConnections bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show optimization totals and API key usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			summary, err := svc.store.Summarize(cmd.Context())
			if err != nil {
				return fmt.Errorf("summarize outcomes: %w", err)
			}

			rows := [][]string{
				{"Optimized (total)", strconv.Itoa(summary.TotalOptimized)},
				{"Failed (total)", strconv.Itoa(summary.TotalFailed)},
				{"Processing", strconv.Itoa(summary.Processing)},
				{"Optimized today", strconv.Itoa(summary.OptimizedToday)},
				{"Failed today", strconv.Itoa(summary.FailedToday)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight}))

			usage, err := svc.ledger.Usage(cmd.Context())
			if err != nil {
				return fmt.Errorf("read quota ledger: %w", err)
			}
			if len(usage) > 0 {
				usageRows := make([][]string, 0, len(usage))
				for _, entry := range usage {
					usageRows = append(usageRows, []string{
						entry.CredentialID,
						fmt.Sprintf("%d / %d", entry.Requests, svc.ledger.DailyCap()),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Credential", "Requests today"}, usageRows,
					[]columnAlignment{alignLeft, alignRight}))
			}

			if checkConnections {
				printConnectionStatus(cmd.Context(), cmd, svc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkConnections, "check", false, "Also verify WordPress and TMDB connectivity")
	return cmd
}

func printConnectionStatus(ctx context.Context, cmd *cobra.Command, svc *services) {
	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	if err := svc.wordpress.TestConnection(checkCtx); err != nil {
		fmt.Fprintf(out, "wordpress: unreachable (%v)\n", err)
	} else {
		fmt.Fprintln(out, "wordpress: ok")
	}
	if err := svc.tmdb.TestConnection(checkCtx); err != nil {
		fmt.Fprintf(out, "tmdb: unreachable (%v)\n", err)
	} else {
		fmt.Fprintln(out, "tmdb: ok")
	}
}
