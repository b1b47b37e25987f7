// Package config loads, normalizes, and validates spmaal configuration data.
//
// It supplies repository defaults (the MATLAB binary name, the AAL atlas
// location inside the SPM toolbox, labeling thresholds), expands user paths
// including tilde shortcuts, reads TOML files, and honours environment
// fallbacks such as SPMAAL_MATLAB and SPMAAL_AAL_NII.
//
// The CLI is the only layer that reads this package; the labeling workflow
// receives an explicit labeling.Config built from it.
package config
