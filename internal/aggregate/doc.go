// Package aggregate reduces the three supplementary transaction tables of the
// credit-default dataset to one summary row per applicant.
//
// Each aggregator groups its typed records by applicant identifier and
// computes a fixed schema of per-group statistics (count, count-by-category,
// sum, mean, min, max, distinct-count) plus derived ratios:
//
//   - BureauAggregator: credit-bureau records, 20 statistics + 3 ratios
//   - PreviousAggregator: prior-application records, 21 statistics + 3 ratios
//   - InstallmentAggregator: installment payments, 3 row-level derived fields,
//     14 statistics + 2 ratios
//
// Missing-value rules: a mean, min or max over no usable values is missing,
// a sum over no usable values is zero, and every ratio with an undefined or
// non-finite result is missing. Applicants with no rows in a table are absent
// from its aggregate output entirely; the table joiner fills them with
// missing values.
//
// Output rows are ordered by ascending applicant identifier so repeated runs
// over identical inputs produce identical tables.
package aggregate
