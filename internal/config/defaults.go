package config

const (
	defaultConfigPath     = "~/.config/spmaal/config.toml"
	defaultAALNii         = "/usr/local/MATLAB/R2019a/toolbox/spm12/toolbox/aal/ROI_MNI_V5.nii"
	defaultStateDir       = "~/.local/share/spmaal"
	defaultMATLABBinary   = "matlab"
	defaultLabelingMode   = 0
	defaultClusterExtent  = 50
	defaultThreshold      = 3.11
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultHistoryEnabled = true

	maxNice = 19
	minNice = -20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AALNii:   defaultAALNii,
			StateDir: defaultStateDir,
		},
		MATLAB: MATLAB{
			Binary: defaultMATLABBinary,
		},
		Labeling: Labeling{
			Mode:      defaultLabelingMode,
			K:         defaultClusterExtent,
			Threshold: defaultThreshold,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
