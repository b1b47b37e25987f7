package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"spmaal/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "spmaal")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.LogDir != filepath.Join(wantState, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if !strings.HasSuffix(cfg.Paths.AALTxt, "ROI_MNI_V5.txt") {
		t.Fatalf("expected derived atlas table path, got %q", cfg.Paths.AALTxt)
	}
	if cfg.MATLAB.Binary != "matlab" {
		t.Fatalf("unexpected matlab binary: %q", cfg.MATLAB.Binary)
	}
	if cfg.Labeling.K != 50 || cfg.Labeling.Threshold != 3.11 || cfg.Labeling.Mode != 0 {
		t.Fatalf("unexpected labeling defaults: %+v", cfg.Labeling)
	}
	if cfg.MATLABTimeout() != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.MATLABTimeout())
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "spmaal.toml")

	type payload struct {
		Paths struct {
			AALNii string `toml:"aal_nii"`
		} `toml:"paths"`
		MATLAB struct {
			Binary         string `toml:"binary"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
			Nice           int    `toml:"nice"`
		} `toml:"matlab"`
		Labeling struct {
			Mode      int     `toml:"mode"`
			K         int     `toml:"k"`
			Threshold float64 `toml:"threshold"`
		} `toml:"labeling"`
	}
	custom := payload{}
	custom.Paths.AALNii = filepath.Join(tempDir, "atlas", "AAL3.nii")
	custom.MATLAB.Binary = "/opt/matlab/bin/matlab"
	custom.MATLAB.TimeoutSeconds = 600
	custom.MATLAB.Nice = 10
	custom.Labeling.Mode = 2
	custom.Labeling.K = 10
	custom.Labeling.Threshold = 4.5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.MATLAB.Binary != "/opt/matlab/bin/matlab" {
		t.Fatalf("expected matlab binary from file, got %q", cfg.MATLAB.Binary)
	}
	if cfg.MATLABTimeout() != 10*time.Minute {
		t.Fatalf("unexpected timeout: %s", cfg.MATLABTimeout())
	}
	if cfg.Paths.AALTxt != filepath.Join(tempDir, "atlas", "AAL3.txt") {
		t.Fatalf("unexpected derived table path: %q", cfg.Paths.AALTxt)
	}
	if cfg.Labeling.Mode != 2 || cfg.Labeling.K != 10 || cfg.Labeling.Threshold != 4.5 {
		t.Fatalf("unexpected labeling overrides: %+v", cfg.Labeling)
	}
}

func TestEnvOverridesMATLABBinaryAndAtlas(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("SPMAAL_MATLAB", "/usr/local/bin/matlab-r2023b")
	t.Setenv("SPMAAL_AAL_NII", filepath.Join(tempDir, "ROI_MNI_V7.nii"))

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MATLAB.Binary != "/usr/local/bin/matlab-r2023b" {
		t.Fatalf("expected env matlab binary, got %q", cfg.MATLAB.Binary)
	}
	if cfg.Paths.AALTxt != filepath.Join(tempDir, "ROI_MNI_V7.txt") {
		t.Fatalf("expected atlas table derived from env atlas, got %q", cfg.Paths.AALTxt)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"mode", func(c *config.Config) { c.Labeling.Mode = 3 }, "labeling.mode"},
		{"k", func(c *config.Config) { c.Labeling.K = -1 }, "labeling.k"},
		{"nice", func(c *config.Config) { c.MATLAB.Nice = 40 }, "matlab.nice"},
		{"level", func(c *config.Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestAtlasTablePath(t *testing.T) {
	cases := map[string]string{
		"/a/ROI_MNI_V5.nii":    "/a/ROI_MNI_V5.txt",
		"/a/ROI_MNI_V5.nii.gz": "/a/ROI_MNI_V5.txt",
		"":                     "",
	}
	for in, want := range cases {
		if got := config.AtlasTablePath(in); got != want {
			t.Fatalf("AtlasTablePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("SPMAAL_MATLAB", "")
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target, config.SampleOverrides{}); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil || !exists {
		t.Fatalf("expected sample to load, exists=%v err=%v", exists, err)
	}
	if cfg.MATLAB.Binary != "matlab" || cfg.Labeling.K != 50 {
		t.Fatalf("sample defaults changed: %+v", cfg.MATLAB)
	}
}

func TestCreateSampleAppliesOverrides(t *testing.T) {
	t.Setenv("SPMAAL_MATLAB", "")
	t.Setenv("SPMAAL_AAL_NII", "")
	dir := t.TempDir()
	target := filepath.Join(dir, "config.toml")
	atlasPath := filepath.Join(dir, "it's atlas", "ROI_MNI_V5.nii")
	overrides := config.SampleOverrides{MATLAB: "/opt/matlab/bin/matlab", AALNii: atlasPath}
	if err := config.CreateSample(target, overrides); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, _, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MATLAB.Binary != "/opt/matlab/bin/matlab" {
		t.Fatalf("unexpected binary %q", cfg.MATLAB.Binary)
	}
	if cfg.Paths.AALNii != atlasPath {
		t.Fatalf("unexpected atlas %q", cfg.Paths.AALNii)
	}
	if cfg.Paths.AALTxt != filepath.Join(dir, "it's atlas", "ROI_MNI_V5.txt") {
		t.Fatalf("unexpected atlas table %q", cfg.Paths.AALTxt)
	}
}
