// Package tabular reads CSV and spreadsheet uploads into loosely typed rows.
//
// Rows are keyed by the original header text. Header lookups are
// case-insensitive through HeaderIndex, so callers can resolve a logical
// field such as "firstName" regardless of how the file spells it.
//
// The package does not know which columns are required; that is decided by
// the caller, which should map Row values into its own typed records as
// soon as possible.
package tabular
