package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seopress/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the seopress configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote sample configuration to %s\n", path)
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file: %s\n\n", ctx.configPath)
			fmt.Fprintf(out, "wordpress url: %s\n", cfg.WordPress.URL)
			fmt.Fprintf(out, "wordpress user: %s\n", cfg.WordPress.Username)
			fmt.Fprintf(out, "author id: %d\n", cfg.WordPress.AuthorID)
			fmt.Fprintf(out, "site domain: %s\n", cfg.WordPress.Domain)
			fmt.Fprintf(out, "categories: movies=%d tv=%d\n", cfg.Categories.MoviesID, cfg.Categories.TVID)
			fmt.Fprintf(out, "gemini model: %s\n", cfg.Gemini.Model)
			fmt.Fprintf(out, "gemini keys: %d configured\n", len(cfg.Gemini.APIKeys))
			fmt.Fprintf(out, "daily request cap: %d\n", cfg.Gemini.DailyRequestCap)
			fmt.Fprintf(out, "lookback hours: %d\n", cfg.WordPress.LookbackHours)
			fmt.Fprintf(out, "batch size: %d\n", cfg.Optimizer.BatchSize)
			fmt.Fprintf(out, "cycle interval: %dm\n", cfg.Scheduler.IntervalMinutes)
			fmt.Fprintf(out, "dashboard bind: %s\n", cfg.Dashboard.Bind)
			fmt.Fprintf(out, "state dir: %s\n", cfg.Paths.StateDir)
			fmt.Fprintf(out, "log dir: %s\n", cfg.Paths.LogDir)
			return nil
		},
	}
}
