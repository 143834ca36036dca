package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent optimization outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			outcomes, err := svc.store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read outcome history: %w", err)
			}
			if len(outcomes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no optimization history yet")
				return nil
			}

			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				rows = append(rows, []string{
					strconv.FormatInt(o.PostID, 10),
					truncate(o.PostTitle, 48),
					o.Status,
					o.UpdatedAt.Local().Format("2006-01-02 15:04"),
					truncate(o.Reason, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Post", "Title", "Status", "Updated", "Reason"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	return cmd
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show per-key Gemini request usage for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.buildServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			usage, err := svc.ledger.Usage(cmd.Context())
			if err != nil {
				return fmt.Errorf("read quota ledger: %w", err)
			}
			if len(usage) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded usage")
				return nil
			}

			dailyCap := svc.ledger.DailyCap()
			rows := make([][]string, 0, len(usage))
			for _, entry := range usage {
				remaining := dailyCap - entry.Requests
				if remaining < 0 {
					remaining = 0
				}
				rows = append(rows, []string{
					entry.CredentialID,
					strconv.Itoa(entry.Requests),
					strconv.Itoa(remaining),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Credential", "Used", "Remaining"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight}))
			return nil
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
