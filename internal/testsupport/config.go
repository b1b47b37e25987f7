package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"spmaal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The atlas image and table point at small files written into the temp dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Paths.AALNii = WriteFile(t, filepath.Join(base, "atlas", "ROI_MNI_V5.nii"), "nifti")
	cfgVal.Paths.AALTxt = WriteAtlasTable(t, filepath.Join(base, "atlas"), DefaultRegions())

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubMATLAB writes a stub "matlab" executable that prints stdout and
// points the config at it.
func WithStubMATLAB(stdout string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MATLAB.Binary = WriteStubBinary(b.t, filepath.Join(b.baseDir, "bin"), "matlab", stdout, 0)
	}
}

// WithHistoryDisabled turns off the SQLite run log.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
