// Package types defines the record collections, the RecordStore interface,
// coercion rules, configuration, and standard errors for the lifeos
// spreadsheet-backed store.
package types
