package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spmaal/internal/atlas"
	"spmaal/internal/services"
)

func newRegionCommand(ctx *commandContext) *cobra.Command {
	var tablePath string

	regionCmd := &cobra.Command{
		Use:   "region",
		Short: "Look up AAL regions",
	}
	regionCmd.PersistentFlags().StringVar(&tablePath, "aal-txt", "", "Path to the AAL lookup table (default from config)")

	openTable := func() (*atlas.Table, error) {
		if path := strings.TrimSpace(tablePath); path != "" {
			return atlas.Open(path), nil
		}
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		return atlas.Open(cfg.Paths.AALTxt), nil
	}

	regionCmd.AddCommand(&cobra.Command{
		Use:   "label NAME",
		Short: "Print the label of the single region whose name contains NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openTable()
			if err != nil {
				return err
			}
			label, err := table.LabelForName(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	})

	regionCmd.AddCommand(&cobra.Command{
		Use:   "name LABEL",
		Short: "Print the name of the region with LABEL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return services.Wrap(services.ErrValidation, "region", "name",
					fmt.Sprintf("label %q is not an integer", args[0]), err)
			}
			table, err := openTable()
			if err != nil {
				return err
			}
			name, err := table.NameForLabel(label)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	})

	regionCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every region in the lookup table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openTable()
			if err != nil {
				return err
			}
			records, err := table.Records()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.Index, rec.Name, strconv.Itoa(rec.Label)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"#", "Name", "Label"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	})

	return regionCmd
}
