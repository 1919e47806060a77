package cmd

import (
	"context"
	"fmt"

	"s3-toolkit/core/config"
	"s3-toolkit/core/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent commands from the audit journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()

		cfg, err := config.Load(envPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Database.Enabled {
			fmt.Fprintln(out, "Audit journal is disabled.")
			return nil
		}

		baseLog, err := newLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log, _ := logger.WithRun(baseLog, cmd.Name())
		defer func() { _ = log.Sync() }()

		entries, err := openAudit(ctx, cfg.Database, log).Recent(ctx, historyLimit)
		if err != nil {
			fmt.Fprintf(out, "Failed to read audit journal: %v\n", err)
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No commands recorded.")
			return nil
		}
		for _, e := range entries {
			target := e.Bucket
			if e.Key != "" {
				target += "/" + e.Key
			}
			fmt.Fprintf(out, "%s  %-24s %-8s %s (%s)\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Command, e.Outcome, target, humanize.Time(e.CreatedAt))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	RootCmd.AddCommand(historyCmd)
}
