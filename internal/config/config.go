package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the atlas, template, and state locations.
type Paths struct {
	AALNii      string `toml:"aal_nii"`
	AALTxt      string `toml:"aal_txt"`
	TemplateDir string `toml:"template_dir"`
	StateDir    string `toml:"state_dir"`
	LogDir      string `toml:"log_dir"`
}

// MATLAB contains settings for launching the external MATLAB process.
type MATLAB struct {
	Binary         string   `toml:"binary"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Nice           int      `toml:"nice"`
	KeepScripts    bool     `toml:"keep_scripts"`
	LockWorkingDir bool     `toml:"lock_working_dir"`
	ExtraArgs      []string `toml:"extra_args"`
}

// Labeling contains the default statistical parameters for a labeling run.
type Labeling struct {
	Mode      int     `toml:"mode"`
	K         int     `toml:"k"`
	Threshold float64 `toml:"threshold"`
}

// History controls the persisted run log.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for spmaal.
//
// Configuration sections by subsystem:
//   - Paths: AAL atlas image and lookup table, template overrides, state
//   - MATLAB: binary, timeout, scheduling priority, script retention
//   - Labeling: default mode, cluster extent k, and statistical threshold
//   - History: SQLite run log
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	MATLAB   MATLAB   `toml:"matlab"`
	Labeling Labeling `toml:"labeling"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("spmaal.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MATLABTimeout returns the configured process timeout, or zero for none.
func (c *Config) MATLABTimeout() time.Duration {
	if c.MATLAB.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.MATLAB.TimeoutSeconds) * time.Second
}

// HistoryPath returns the SQLite database location for the run log.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the file log sink, or "" when file logging is disabled.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "spmaal.log")
}

// AtlasTablePath derives the AAL lookup table path from the atlas image path
// (ROI_MNI_V5.nii -> ROI_MNI_V5.txt).
func AtlasTablePath(niiPath string) string {
	niiPath = strings.TrimSpace(niiPath)
	if niiPath == "" {
		return ""
	}
	ext := filepath.Ext(niiPath)
	if strings.EqualFold(ext, ".gz") {
		niiPath = strings.TrimSuffix(niiPath, ext)
		ext = filepath.Ext(niiPath)
	}
	return strings.TrimSuffix(niiPath, ext) + ".txt"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleOverrides replaces values in the sample written by CreateSample.
// Empty fields keep the sample defaults.
type SampleOverrides struct {
	MATLAB string
	AALNii string
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string, overrides SampleOverrides) error {
	content, err := renderSample(overrides)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func renderSample(overrides SampleOverrides) (string, error) {
	lines := strings.Split(sampleConfig, "\n")
	for _, kv := range [][2]string{{"binary", overrides.MATLAB}, {"aal_nii", overrides.AALNii}} {
		key, value := kv[0], strings.TrimSpace(kv[1])
		if value == "" {
			continue
		}
		encoded, err := toml.Marshal(map[string]string{key: value})
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", key, err)
		}
		for i, line := range lines {
			if strings.HasPrefix(line, key+" = ") {
				lines[i] = strings.TrimSpace(string(encoded))
				break
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
