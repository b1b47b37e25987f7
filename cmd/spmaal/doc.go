// Package main hosts the spmaal CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, and the run history
// around the labeling pipeline, and exposes the atlas helpers (region lookups
// and ROI masks) plus preflight checks and template inspection. Report rows go
// to stdout; logs and diagnostics go to stderr.
package main
