// Package labeling drives one SPM/AAL labeling run end to end.
//
// A run renders the mode script and the wrapper script into a private
// temporary directory, launches MATLAB on them, and scrapes the STATISTICS
// section from its standard output. Inputs are checked before anything is
// written so a missing SPM.mat or atlas image fails fast with
// services.ErrMissingInput. Output without a STATISTICS marker is never
// treated as an empty success; it fails with services.ErrEmptyReport.
//
// Runs are recorded through an optional Recorder whether they succeed or not.
package labeling
