package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spmaal/internal/config"
	"spmaal/internal/labeling"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	var overrides config.SampleOverrides

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Long: "Writes a commented sample configuration. --matlab and --aal-nii fill in\n" +
			"the MATLAB binary and the AAL atlas image so the file works on this machine.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configInitTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if v := strings.TrimSpace(overrides.AALNii); v != "" {
				expanded, err := config.ExpandPath(v)
				if err != nil {
					return fmt.Errorf("resolve --aal-nii: %w", err)
				}
				overrides.AALNii = expanded
			}

			if err := config.CreateSample(target, overrides); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("reload %s: %w", target, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			writeConfigSummary(out, cfg, target, true)
			if !fileExists(cfg.Paths.AALNii) {
				fmt.Fprintln(out, "The AAL image was not found. Edit paths.aal_nii, export SPMAAL_AAL_NII, or rerun with --aal-nii.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	cmd.Flags().StringVar(&overrides.MATLAB, "matlab", "", "MATLAB binary to record in the file")
	cmd.Flags().StringVar(&overrides.AALNii, "aal-nii", "", "AAL atlas image (ROI_MNI_V5.nii) to record in the file")
	return cmd
}

func configInitTarget(flagPath string) (string, error) {
	target := strings.TrimSpace(flagPath)
	if target == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return defaultPath, nil
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if dir := filepath.Dir(expanded); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create config directory %q: %w", dir, err)
		}
	}
	return expanded, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long:  "Loads the configuration and shows the resolved MATLAB, atlas, and state settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			writeConfigSummary(out, cfg, ctx.configPath, fileExists(ctx.configPath))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// writeConfigSummary prints the settings a labeling run will use along with
// whether each external resource is present.
func writeConfigSummary(out io.Writer, cfg *config.Config, path string, loaded bool) {
	source := "not found, defaults used"
	if loaded {
		source = "loaded"
	}
	templates, templateStatus := "built-in", ""
	if cfg.Paths.TemplateDir != "" {
		templates, templateStatus = cfg.Paths.TemplateDir, presence(cfg.Paths.TemplateDir)
	}
	historyStatus := "disabled"
	if cfg.History.Enabled {
		historyStatus = "enabled"
	}
	mode := labeling.Mode(cfg.Labeling.Mode)
	defaults := fmt.Sprintf("%s, k %d, threshold %s", mode.Title(), cfg.Labeling.K,
		strconv.FormatFloat(cfg.Labeling.Threshold, 'g', -1, 64))

	rows := [][]string{
		{"Config file", path, source},
		{"MATLAB", cfg.MATLAB.Binary, binaryStatus(cfg.MATLAB.Binary)},
		{"AAL image", cfg.Paths.AALNii, presence(cfg.Paths.AALNii)},
		{"AAL table", cfg.Paths.AALTxt, presence(cfg.Paths.AALTxt)},
		{"Templates", templates, templateStatus},
		{"History", cfg.HistoryPath(), historyStatus},
		{"Labeling", defaults, ""},
	}
	fmt.Fprintln(out, renderTable("", []string{"Setting", "Value", "Status"}, rows, nil))
}

func binaryStatus(binary string) string {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return "not on PATH"
	}
	if resolved == binary {
		return "found"
	}
	return "found at " + resolved
}

func presence(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "found"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
