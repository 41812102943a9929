package types

import "context"

// HeaderOffset is the backing-store position of the first data row.
// Row 1 is the header, so logical index 0 lives at position 2.
const HeaderOffset = 2

// Handle is the backing-store position of a loaded row (1-based, header
// row is 1). Handles are valid only against the load they came from:
// after any delete the remaining rows shift, and callers must recompute
// handles from a fresh load before the next mutate or delete.
type Handle int

// Row is one data row of a collection as loaded from the backing store,
// keyed by header name and carrying its position handle.
type Row struct {
	Handle Handle            `json:"handle"`
	Cells  map[string]string `json:"cells"`
}

// Cell returns the named cell value, or the empty string when the row is
// missing that column. Malformed remote rows are tolerated, not errors.
func (r Row) Cell(column string) string {
	return r.Cells[column]
}

// RecordStore abstracts a named collection of positional rows against a
// tabular backend. Implementations: internal/sqlite (local) and
// internal/sheets (remote spreadsheet).
type RecordStore interface {
	// Rows performs a full scan of the collection, returning data rows in
	// store order with their position handles. The header row is not
	// included.
	Rows(ctx context.Context, collection string) ([]Row, error)

	// Append adds one row with the given positional values. Values beyond
	// the collection's column count are dropped; missing values are blank.
	Append(ctx context.Context, collection string, values []string) error

	// UpdateCell overwrites a single cell of an existing row.
	UpdateCell(ctx context.Context, collection string, h Handle, column, value string) error

	// DeleteRow removes the row at the given position. Rows below it shift
	// up by one.
	DeleteRow(ctx context.Context, collection string, h Handle) error

	// Truncate removes all data rows, leaving the header only.
	Truncate(ctx context.Context, collection string) error
}

// Record is a typed row of one collection, ready for positional append.
type Record interface {
	// Collection returns the standard collection name the record belongs to.
	Collection() string

	// Values returns the record's cell values in the collection's column order.
	Values() []string
}
