package testsupport

import (
	"testing"

	"spmaal/internal/config"
	"spmaal/internal/history"
)

// MustOpenHistory opens the run history for cfg and closes it at test end.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
