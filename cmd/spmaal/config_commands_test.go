package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.MATLAB.Binary)
	requireContains(t, out, env.cfg.Paths.AALTxt)
	requireContains(t, out, "Local Maxima")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "missing")
	requireContains(t, out, "--aal-nii")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// The sample must load on its own.
	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitRecordsMachinePaths(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "spmaal.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target,
		"--matlab", env.cfg.MATLAB.Binary, "--aal-nii", env.cfg.Paths.AALNii}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.AALNii)
	requireContains(t, out, env.cfg.Paths.AALTxt)
	if strings.Contains(out, "was not found") {
		t.Fatalf("atlas reported missing:\n%s", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	requireContains(t, string(data), env.cfg.Paths.AALNii)
	requireContains(t, string(data), "# AAL atlas image")

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate written config: %v", err)
	}
	requireContains(t, out, "found")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[matlab]\nbinnary = \"matlab\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected unknown key to fail validation")
	}
}
