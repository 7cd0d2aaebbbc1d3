// Package features implements the applicant-level feature derivation for the
// credit-default dataset.
//
// Derive runs seven stages in a fixed order over an applicant table:
// sentinel anomaly correction for employment days, day-to-year conversions,
// ten financial ratios, eight missing-value indicators, six interaction
// terms, three interval binnings, and the document-submission count. Stages
// only append columns; rows are never added or removed.
//
// Numeric formulas propagate missing operands to missing results. The two
// exceptions have explicit fallback rules: CREDIT_PER_CHILD is zero for
// childless applicants, and EXT_SOURCES_MEAN averages whichever external
// scores are present.
package features
