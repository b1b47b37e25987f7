package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spmaal/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify MATLAB, the AAL atlas, templates, and state directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.CheckAll(cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "OK"
				switch {
				case !r.Passed && r.Optional:
					status = "WARN"
				case !r.Passed:
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("", []string{"Check", "Status", "Detail"}, rows, nil))
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			if !preflight.Ready(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
