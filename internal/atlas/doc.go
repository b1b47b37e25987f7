// Package atlas reads the AAL region lookup table (ROI_MNI_V5.txt and
// friends): one record per line, tab-separated index, region name, and
// numeric label.
//
// Queries must resolve to exactly one record. A name query matches by
// substring, so "Amygdala" is ambiguous between Amygdala_L and Amygdala_R and
// fails with a *LookupError that lists every candidate.
package atlas
