package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spmaal/internal/atlas"
	"spmaal/internal/config"
	"spmaal/internal/logging"
	"spmaal/internal/roimask"
)

func newROIMaskCommand(ctx *commandContext) *cobra.Command {
	var output string
	var byLabel bool
	var aalNii string
	var aalTxt string

	cmd := &cobra.Command{
		Use:   "roi-mask REGION",
		Short: "Write a NIfTI mask of one AAL region",
		Long: "Keeps the atlas voxels belonging to REGION and zeroes the rest.\n" +
			"REGION is a name (matched like `region label`) or, with --label, a numeric label.\n" +
			"The mask is written gzipped; an output ending in .nii gains .gz.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			image := cfg.Paths.AALNii
			tablePath := cfg.Paths.AALTxt
			if v := strings.TrimSpace(aalNii); v != "" {
				image = v
				tablePath = config.AtlasTablePath(v)
			}
			if v := strings.TrimSpace(aalTxt); v != "" {
				tablePath = v
			}

			region, err := roimask.Resolve(atlas.Open(tablePath), args[0], byLabel)
			if err != nil {
				return err
			}
			stats, err := roimask.Write(image, region.Label, output)
			if err != nil {
				return err
			}
			ctx.loggerValue().Info("wrote roi mask",
				logging.String("region", region.Name),
				logging.Int("label", region.Label),
				logging.Int("voxels", stats.Voxels),
				logging.String("output", stats.Output),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d): %d voxels -> %s\n", region.Name, region.Label, stats.Voxels, stats.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination .nii.gz file")
	cmd.Flags().BoolVar(&byLabel, "label", false, "Treat REGION as a numeric label")
	cmd.Flags().StringVar(&aalNii, "aal-nii", "", "Path to ROI_MNI_V?.nii (default from config)")
	cmd.Flags().StringVar(&aalTxt, "aal-txt", "", "Path to the AAL lookup table")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
