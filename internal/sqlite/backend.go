// Package sqlite implements the local RecordStore backend for lifeos.
// It emulates the spreadsheet's positional row model: each collection is
// one table, rows keep insertion order, and a row's handle is its
// position counted from the header (logical index + 2). Deleting a row
// shifts the handles of every row below it, exactly as a sheet would.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Compile-time interface check: Backend must implement RecordStore.
var _ types.RecordStore = (*Backend)(nil)

// Backend implements types.RecordStore using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist and applies the collection schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "lifeos.db"))
	if err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach releases the SQLite connection. After Detach, all operations
// return ErrNotAttached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Rows performs a full scan of the collection in insertion order.
func (b *Backend) Rows(ctx context.Context, collection string) ([]types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cols, err := b.checkCollection(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY seq", strings.Join(cols, ", "), collection)
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	defer rows.Close()

	// Non-nil even when empty, so an empty collection serializes as []
	// rather than null.
	out := []types.Row{}
	values := make([]string, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, types.NewStoreError(types.ErrKindConnectivity, collection, err)
		}
		cells := make(map[string]string, len(cols))
		for i, c := range cols {
			cells[c] = values[i]
		}
		out = append(out, types.Row{
			Handle: types.Handle(len(out) + types.HeaderOffset),
			Cells:  cells,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return out, nil
}

// Append adds one row with the given positional values. Extra values are
// dropped; missing ones are stored blank, matching sheet append behavior.
func (b *Backend) Append(ctx context.Context, collection string, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols, err := b.checkCollection(collection)
	if err != nil {
		return err
	}

	args := make([]any, len(cols))
	for i := range cols {
		if i < len(values) {
			args[i] = values[i]
		} else {
			args[i] = ""
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		collection,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
	)
	if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// UpdateCell overwrites a single cell of the row at the given position.
func (b *Backend) UpdateCell(ctx context.Context, collection string, h types.Handle, column, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.checkCollection(collection); err != nil {
		return err
	}
	if _, err := types.ColumnIndex(collection, column); err != nil {
		return err
	}

	seq, err := b.seqAt(ctx, collection, h)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE seq = ?", collection, column)
	if _, err := b.db.ExecContext(ctx, query, value, seq); err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// DeleteRow removes the row at the given position. Subsequent rows shift
// up: their handles on the next load are one lower.
func (b *Backend) DeleteRow(ctx context.Context, collection string, h types.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.checkCollection(collection); err != nil {
		return err
	}

	seq, err := b.seqAt(ctx, collection, h)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE seq = ?", collection)
	if _, err := b.db.ExecContext(ctx, query, seq); err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// Truncate removes all data rows, leaving only the schema (the sheet's
// header-only state).
func (b *Backend) Truncate(ctx context.Context, collection string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.checkCollection(collection); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s", collection)
	if _, err := b.db.ExecContext(ctx, query); err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// checkCollection validates attachment and the collection name, returning
// the column schema. The name doubles as the table name; validation
// against the known set is what makes the query interpolation safe.
func (b *Backend) checkCollection(collection string) ([]string, error) {
	if !b.attached {
		return nil, types.ErrNotAttached
	}
	cols, err := types.Columns(collection)
	if err != nil {
		return nil, types.NewStoreError(types.ErrKindNotFound, collection, err)
	}
	return cols, nil
}

// seqAt resolves a position handle to the underlying seq key.
func (b *Backend) seqAt(ctx context.Context, collection string, h types.Handle) (int64, error) {
	offset := int(h) - types.HeaderOffset
	if offset < 0 {
		return 0, types.NewStoreError(types.ErrKindBadHandle, collection, types.ErrBadHandle)
	}

	query := fmt.Sprintf("SELECT seq FROM %s ORDER BY seq LIMIT 1 OFFSET ?", collection)
	var seq int64
	err := b.db.QueryRowContext(ctx, query, offset).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, types.NewStoreError(types.ErrKindBadHandle, collection, types.ErrBadHandle)
	}
	if err != nil {
		return 0, types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return seq, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
