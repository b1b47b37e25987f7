// Package history persists a log of labeling runs in SQLite.
//
// Each run is stored once it finishes, successful or not, keyed by the run
// UUID that also tags its log lines. The schema is embedded and versioned; a
// database written by a different schema version is refused with
// ErrSchemaMismatch rather than migrated.
package history
