// Package exporter writes feature tables to CSV.
//
// Output uses a UTF-8 BOM for Excel compatibility and renders missing values
// as empty cells. Files are written through a temporary sibling and renamed
// into place so that a failed run never leaves partial output.
package exporter
