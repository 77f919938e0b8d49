// Package recipients loads, validates and generates recipient lists.
//
// Two file formats are supported: delimited (CSV/TSV with a header row) and
// JSON (an array of objects). Parsing preserves file order, which later
// defines chunk membership and the positions cited by duplicate errors.
package recipients
