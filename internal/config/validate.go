package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMATLAB(); err != nil {
		return err
	}
	if err := c.validateLabeling(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMATLAB() error {
	if c.MATLAB.Binary == "" {
		return errors.New("matlab.binary must be set")
	}
	if c.MATLAB.Nice < minNice || c.MATLAB.Nice > maxNice {
		return fmt.Errorf("matlab.nice must be between %d and %d, got %d", minNice, maxNice, c.MATLAB.Nice)
	}
	return nil
}

func (c *Config) validateLabeling() error {
	if c.Labeling.Mode < 0 || c.Labeling.Mode > 2 {
		return fmt.Errorf("labeling.mode must be 0, 1, or 2, got %d", c.Labeling.Mode)
	}
	if c.Labeling.K < 0 {
		return fmt.Errorf("labeling.k must be non-negative, got %d", c.Labeling.K)
	}
	if math.IsNaN(c.Labeling.Threshold) || math.IsInf(c.Labeling.Threshold, 0) {
		return errors.New("labeling.threshold must be a finite number")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}
