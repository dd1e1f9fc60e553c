package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/devbox/pkg/config"
	"github.com/jaspreet-dot-casa/devbox/pkg/history"
	"github.com/jaspreet-dot-casa/devbox/pkg/report"
	"github.com/jaspreet-dot-casa/devbox/pkg/utils"
)

type historyOptions struct {
	clear bool
	last  bool
	limit int
}

func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent install runs",
		Long: `Show completed install runs, newest first.

Interrupted runs are never recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Delete all recorded runs")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Show the full report of the latest run")
	cmd.Flags().IntVarP(&opts.limit, "number", "n", 10, "Number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *historyOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	store := history.NewStore(config.StateDir(), cfg.HistoryLimit)

	if opts.clear {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	if opts.last {
		run, ok, err := store.Latest()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		fmt.Fprintf(out, "Run %s at %s (%s)\n\n", run.ID, run.FinishedAt.Local().Format(time.DateTime), run.Duration().Round(time.Second))
		return report.Render(out, run.Report())
	}

	runs, err := store.Load()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	shown := 0
	for i := len(runs) - 1; i >= 0; i-- {
		if opts.limit > 0 && shown == opts.limit {
			break
		}
		run := runs[i]
		fmt.Fprintf(out, "%-16s  %-8s  %s\n",
			utils.FormatTimeAgo(run.FinishedAt),
			run.Duration().Round(time.Second),
			report.Totals(run.Report()))
		shown++
	}

	return nil
}
