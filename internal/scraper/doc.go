// Package scraper extracts the STATISTICS report from captured MATLAB output.
//
// MATLAB prints banner text, SPM progress, and warnings before the AAL scripts
// emit their report. Everything from the first line containing STATISTICS to
// the end of stdout is the report; the line after a bare CONTRAST line is the
// contrast title and is surfaced to an optional observer.
package scraper
