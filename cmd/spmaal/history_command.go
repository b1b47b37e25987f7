package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"spmaal/internal/history"
)

var errHistoryDisabled = errors.New("run history is disabled ([history] enabled = false)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded labeling runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if store == nil {
					return errHistoryDisabled
				}
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable("", historyHeaders, historyRows(runs), historyAligns))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to show (0 for all)")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one run (ID may be a unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if store == nil {
					return errHistoryDisabled
				}
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRun(cmd, run)
				return nil
			})
		},
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if store == nil {
					return errHistoryDisabled
				}
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	})

	return historyCmd
}

var (
	historyHeaders = []string{"ID", "Started", "Source", "Contrast", "Mode", "Status", "Rows", "Duration"}
	historyAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight}
)

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := string(run.Status)
		if run.Failed() && run.ErrorKind != "" {
			status += " (" + run.ErrorKind + ")"
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Source,
			strconv.Itoa(run.Contrast),
			run.Mode,
			status,
			strconv.Itoa(run.Rows),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	return rows
}

func printRun(cmd *cobra.Command, run *history.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", run.ID)
	fmt.Fprintf(out, "Source:    %s\n", run.Source)
	fmt.Fprintf(out, "Contrast:  %d\n", run.Contrast)
	fmt.Fprintf(out, "Mode:      %s\n", run.Mode)
	fmt.Fprintf(out, "k:         %d\n", run.K)
	fmt.Fprintf(out, "Threshold: %s\n", strconv.FormatFloat(run.Threshold, 'g', -1, 64))
	fmt.Fprintf(out, "Status:    %s\n", run.Status)
	fmt.Fprintf(out, "Rows:      %d\n", run.Rows)
	fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Duration:  %s\n", run.Duration().Round(time.Millisecond))
	if run.Failed() {
		fmt.Fprintf(out, "Error:     [%s] %s\n", run.ErrorKind, run.ErrorMessage)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
