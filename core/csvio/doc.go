// Package csvio implements the two-phase CSV data interchange pipeline.
//
// Ingestion is split into distinct phases so callers can inspect validation
// failures before committing to an import:
//
//  1. Parse turns a raw byte buffer into flat string-keyed rows. Parsing is
//     relaxed: byte-order marks are stripped, lines starting with '#' are
//     treated as instructions and skipped, blank lines are ignored, and rows
//     with inconsistent column counts are padded or truncated to the header
//     rather than failing the whole file.
//  2. Validate checks each row against a Schema (required fields, format
//     patterns, enumerated values) and normalizes accepted values. A failing
//     row contributes zero items to the accepted dataset and one or more
//     entries to the error list; it never blocks subsequent rows. Error row
//     numbers are the 1-based data row plus a header offset of 2.
//
// Export is the inverse: structured records to a CSV string with a fixed
// column order and optional header relabeling.
package csvio
