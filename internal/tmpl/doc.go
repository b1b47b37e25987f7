// Package tmpl renders MATLAB scripts from text templates with $name
// placeholders.
//
// Substitution is deliberately non-strict: a placeholder with no value stays
// in the output verbatim, so MATLAB code that legitimately contains a dollar
// sign survives rendering. The wrapper and the three AAL labeling mode scripts
// are embedded; a template directory can override any of them by file name.
package tmpl
