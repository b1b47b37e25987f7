// Package logging assembles structured slog loggers and formatting helpers used
// across spmaal.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with run IDs and stages. Loggers write to stderr; stdout belongs to the
// statistics report.
package logging
