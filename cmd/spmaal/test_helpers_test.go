package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"spmaal/internal/config"
	"spmaal/internal/testsupport"
)

const stubStdout = "MATLAB banner\nCONTRAST\nfaces > houses\nSTATISTICS\n" +
	"Local maxima labeling\tfaces > houses\n" +
	"x\ty\tz\tregion\n" +
	"-30\t-22\t-14\tHippocampus_L\n"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	source     string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("SPMAAL_MATLAB", "")
	t.Setenv("SPMAAL_AAL_NII", "")

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubMATLAB(stubStdout)}, opts...)...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "spmaal", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		source:     testsupport.WriteFile(t, filepath.Join(base, "sub01", "SPM.mat"), "MATLAB 5.0 MAT-file"),
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, string(data))
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
