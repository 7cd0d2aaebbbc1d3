// Package loader reads the delimited input tables of the credit-default
// dataset.
//
// ReadTable loads an applicant table generically, inferring numeric versus
// categorical columns from the data. The three typed loaders (LoadBureau,
// LoadPrevious, LoadInstallments) parse the supplementary transaction tables
// into record slices for aggregation, checking required columns up front.
// Both CSV and XLSX inputs are accepted, chosen by file extension.
//
// Empty cells and the usual NA spellings are read as missing values.
package loader
