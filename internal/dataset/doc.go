// Package dataset provides the in-memory table representation shared by every
// pipeline stage.
//
// A Table is an ordered set of equally sized columns of one of three kinds:
// float (NaN marks a missing cell), string (empty string marks a missing cell)
// and bool (indicator features, never missing). The applicant identifier column
// SK_ID_CURR is the sole join key.
//
// The missing-value contract is uniform: any undefined arithmetic result
// (division by zero, division by missing, overflow to infinity) is represented
// as NaN at the point of computation via Sanitize, so downstream consumers
// never observe infinite sentinels.
//
// LeftJoin implements the joiner contract: the driving table's row set and
// order are preserved, unmatched rows are filled with missing values, and
// right-only keys are dropped.
package dataset
