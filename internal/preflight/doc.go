// Package preflight provides readiness checks for the MATLAB binary, the AAL
// atlas resources, and the directories spmaal writes to.
//
// The CLI "spmaal check" command runs CheckAll and renders the results as a
// table. Individual checks never return errors; failures are reported in
// Result.Detail so every check runs even when an earlier one fails.
package preflight
