// Package pipeline orchestrates the feature-engineering run for the
// credit-default dataset.
//
// A run moves through five strictly linear stages: load, derive applicant
// features, aggregate the supplementary tables, join, and emit. Any stage
// failure aborts the run; outputs are written only after every in-memory
// transform has succeeded, so a failed run leaves no partial files.
//
// The train and test splits pass through identical transform logic. No
// statistic computed from one split's applicant rows feeds a feature of the
// other: every derived feature comes from a row's own fields or from the
// supplementary tables, which are aggregated once and shared read-only by
// both splits. Each supplementary table is loaded and reduced inside its own
// scope so its raw rows can be reclaimed before the next table is read.
package pipeline
