package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"spmaal/internal/config"
	"spmaal/internal/history"
	"spmaal/internal/labeling"
	"spmaal/internal/logging"
)

type labelOptions struct {
	input       string
	contrast    int
	mode        int
	aalNii      string
	aalTxt      string
	matlab      string
	output      string
	k           int
	threshold   float64
	timeout     time.Duration
	nice        int
	keepScripts bool
	raw         bool
}

func newLabelCommand(ctx *commandContext) *cobra.Command {
	defaults := config.Default()
	opts := labelOptions{
		mode:      defaults.Labeling.Mode,
		k:         defaults.Labeling.K,
		threshold: defaults.Labeling.Threshold,
	}

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Run SPM/AAL labeling on a contrast and print the statistics",
		Long: "Calls SPM/AAL through MATLAB on an existing SPM.mat and collects the\n" +
			"STATISTICS section it prints.\n\n" +
			"Example:\n  spmaal label -i SPM.mat --contrast 1 --mode 1",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Existing SPM.mat")
	flags.IntVarP(&opts.contrast, "contrast", "n", 0, "Index of the contrast of interest")
	flags.IntVar(&opts.mode, "mode", opts.mode, labeling.ModeHelp())
	flags.StringVar(&opts.aalNii, "aal-nii", "", "Path to ROI_MNI_V?.nii (default from config)")
	flags.StringVar(&opts.aalTxt, "aal-txt", "", "Path to the AAL lookup table (default derived from --aal-nii)")
	flags.StringVar(&opts.matlab, "matlab", "", "Path to the MATLAB command (default from config)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output text file")
	flags.IntVarP(&opts.k, "k", "k", opts.k, "Cluster extent threshold in voxels")
	flags.Float64Var(&opts.threshold, "threshold", opts.threshold, "Height threshold on the spmT map")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Kill MATLAB after this long (0 uses config)")
	flags.IntVar(&opts.nice, "nice", 0, "Scheduling priority adjustment for MATLAB (-20..19)")
	flags.BoolVar(&opts.keepScripts, "keep-scripts", false, "Keep rendered MATLAB scripts for inspection")
	flags.BoolVar(&opts.raw, "raw", false, "Print raw lines even on a terminal")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("contrast")

	return cmd
}

func runLabel(cmd *cobra.Command, ctx *commandContext, opts labelOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	labelCfg := labeling.ConfigFromSettings(cfg)
	if aalNii := strings.TrimSpace(opts.aalNii); aalNii != "" {
		labelCfg.AALNii = aalNii
		labelCfg.AALTxt = config.AtlasTablePath(aalNii)
	}
	if aalTxt := strings.TrimSpace(opts.aalTxt); aalTxt != "" {
		labelCfg.AALTxt = aalTxt
	}
	if matlab := strings.TrimSpace(opts.matlab); matlab != "" {
		labelCfg.MATLAB = matlab
	}
	if flags.Changed("timeout") {
		labelCfg.Timeout = opts.timeout
	}
	if flags.Changed("nice") {
		labelCfg.Nice = opts.nice
	}
	if opts.keepScripts {
		labelCfg.KeepScripts = true
	}

	modeValue := cfg.Labeling.Mode
	if flags.Changed("mode") {
		modeValue = opts.mode
	}
	mode, err := labeling.ModeFromInt(modeValue)
	if err != nil {
		return err
	}

	logger := ctx.loggerValue()
	return ctx.withHistory(func(store *history.Store) error {
		labelOpts := []labeling.Option{labeling.WithLogger(logger)}
		if store != nil {
			labelOpts = append(labelOpts, labeling.WithRecorder(store))
		}
		labeler, err := labeling.New(labelCfg, labelOpts...)
		if err != nil {
			return err
		}

		req := labeler.Request(opts.input, opts.contrast, mode)
		if flags.Changed("k") {
			req.K = opts.k
		}
		if flags.Changed("threshold") {
			req.Threshold = opts.threshold
		}

		result, err := labeler.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		if strings.TrimSpace(opts.output) != "" {
			if err := writeLinesFile(opts.output, result.Lines); err != nil {
				return err
			}
			logger.Info("wrote statistics", logging.String("output", opts.output), logging.Int("lines", len(result.Lines)))
			return nil
		}
		return printResult(cmd, result, opts.raw)
	})
}

func printResult(cmd *cobra.Command, result *labeling.Result, raw bool) error {
	out := cmd.OutOrStdout()
	if raw || !isTerminal(out) {
		return writeLines(out, result.Lines)
	}
	table, err := result.Table()
	if err != nil {
		return writeLines(out, result.Lines)
	}
	title := result.Mode.Title()
	if heading := table.Heading(); heading != "" {
		title = heading
	}
	fmt.Fprintln(out, renderTable(title, table.Header, table.Rows, nil))
	return nil
}
