// Package services defines shared utilities consumed by the labeling workflow
// and the wrappers around external tools.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper so callers can branch on
//     the failure kind (missing input, empty report, non-unique lookup, ...)
//     with errors.Is instead of scraping console text.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across commands.
package services
