package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"spmaal/internal/tmpl"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	var dump string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the MATLAB script templates and their placeholders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.TemplateDir
			source := tmpl.Source(dir)
			out := cmd.OutOrStdout()

			if name := strings.TrimSpace(dump); name != "" {
				data, err := fs.ReadFile(source, name)
				if err != nil {
					return fmt.Errorf("template %s: %w", name, err)
				}
				_, err = out.Write(data)
				return err
			}

			names := tmpl.BuiltinNames()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				data, err := fs.ReadFile(source, name)
				if err != nil {
					return fmt.Errorf("template %s: %w", name, err)
				}
				origin := "built-in"
				if dir != "" {
					if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
						origin = "override"
					}
				}
				rows = append(rows, []string{name, origin, strings.Join(tmpl.Placeholders(string(data)), ", ")})
			}
			fmt.Fprintln(out, renderTable("", []string{"Template", "Source", "Placeholders"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&dump, "dump", "", "Print the source of the named template")
	return cmd
}
