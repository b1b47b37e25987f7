package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMATLAB()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SPMAAL_AAL_NII"); ok && strings.TrimSpace(value) != "" {
		c.Paths.AALNii = strings.TrimSpace(value)
	}

	var err error
	if c.Paths.AALNii, err = expandPath(strings.TrimSpace(c.Paths.AALNii)); err != nil {
		return fmt.Errorf("paths.aal_nii: %w", err)
	}
	if strings.TrimSpace(c.Paths.AALTxt) == "" {
		c.Paths.AALTxt = AtlasTablePath(c.Paths.AALNii)
	}
	if c.Paths.AALTxt, err = expandPath(strings.TrimSpace(c.Paths.AALTxt)); err != nil {
		return fmt.Errorf("paths.aal_txt: %w", err)
	}
	if c.Paths.TemplateDir, err = expandPath(strings.TrimSpace(c.Paths.TemplateDir)); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMATLAB() {
	if value, ok := os.LookupEnv("SPMAAL_MATLAB"); ok && strings.TrimSpace(value) != "" {
		c.MATLAB.Binary = value
	}
	c.MATLAB.Binary = strings.TrimSpace(c.MATLAB.Binary)
	if c.MATLAB.Binary == "" {
		c.MATLAB.Binary = defaultMATLABBinary
	}
	if c.MATLAB.TimeoutSeconds < 0 {
		c.MATLAB.TimeoutSeconds = 0
	}
	args := make([]string, 0, len(c.MATLAB.ExtraArgs))
	for _, arg := range c.MATLAB.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.MATLAB.ExtraArgs = args
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
