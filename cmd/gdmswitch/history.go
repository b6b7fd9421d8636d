package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/gdmswitch/internal/adapter/output"
	"github.com/jmylchreest/gdmswitch/internal/config"
	"github.com/jmylchreest/gdmswitch/internal/journal"
)

var historyOpts struct {
	limit  int
	format string
	since  string
	failed bool
	dryRun bool
	real   bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded toggle attempts",
	Long: `List toggle attempts recorded in the journal, newest first.

Examples:
  # Show the last 20 attempts
  gdmswitch history

  # Show everything as JSON
  gdmswitch history --limit 0 --format json

  # Show failed attempts from the last week
  gdmswitch history --since 7d --failed`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", config.DefaultHistoryLimit,
		"Maximum number of attempts to show (0=unlimited)")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", string(output.FormatPlain),
		"Output format: plain, json, yaml")
	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Only show attempts from the last duration (e.g., 48h, 7d, 1w)")
	historyCmd.Flags().BoolVar(&historyOpts.failed, "failed", false,
		"Only show attempts that ended in an error")
	historyCmd.Flags().BoolVar(&historyOpts.dryRun, "dry-run", false,
		"Only show dry runs")
	historyCmd.Flags().BoolVar(&historyOpts.real, "real", false,
		"Only show attempts that tried to apply the change")
	historyCmd.MarkFlagsMutuallyExclusive("dry-run", "real")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyOpts.format == string(output.FormatWaybar) {
		return fmt.Errorf("format %q is only available for status", historyOpts.format)
	}
	formatter, err := output.NewFormatter(output.FormatType(historyOpts.format), output.DefaultFormatterOptions())
	if err != nil {
		return err
	}

	since, err := journal.ParseDuration(historyOpts.since)
	if err != nil {
		return err
	}

	events, err := journal.Load(cfg.JournalPath())
	if err != nil {
		return err
	}

	events = journal.Filter(events, historyFilter(since))
	return formatter.FormatHistory(cmd.OutOrStdout(), journal.Tail(events, historyOpts.limit))
}

// historyFilter builds the journal filter from the command flags.
func historyFilter(since time.Duration) journal.FilterOptions {
	opts := journal.FilterOptions{Since: since, FailedOnly: historyOpts.failed}
	switch {
	case historyOpts.dryRun:
		opts.DryRun = &historyOpts.dryRun
	case historyOpts.real:
		dryRun := false
		opts.DryRun = &dryRun
	}
	return opts
}
