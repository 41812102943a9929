// Package sheets implements the remote RecordStore adapter over the
// Google Sheets API. Each collection is one tab of a single spreadsheet;
// row 1 of every tab is the header, so position handles map directly to
// sheet row numbers.
package sheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Store implements types.RecordStore against one spreadsheet.
type Store struct {
	srv           *sheetsapi.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> numeric sheet id, fetched lazily
}

// Compile-time interface check: Store must implement RecordStore.
var _ types.RecordStore = (*Store)(nil)

// New creates a Store using a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Store, error) {
	if spreadsheetID == "" {
		return nil, types.ErrSpreadsheetEmpty
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Store{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Rows performs a full scan of the collection's tab, skipping the header.
func (s *Store) Rows(ctx context.Context, collection string) ([]types.Row, error) {
	cols, err := types.Columns(collection)
	if err != nil {
		return nil, types.NewStoreError(types.ErrKindNotFound, collection, err)
	}

	readRange := fmt.Sprintf("%s!A%d:%s", collection, types.HeaderOffset, columnName(len(cols)-1))
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}

	rows := make([]types.Row, 0, len(resp.Values))
	for i, values := range resp.Values {
		cells := make(map[string]string, len(cols))
		for j, c := range cols {
			if j < len(values) {
				cells[c] = fmt.Sprint(values[j])
			} else {
				// Trailing blanks are trimmed by the API; pad them back.
				cells[c] = ""
			}
		}
		rows = append(rows, types.Row{
			Handle: types.Handle(i + types.HeaderOffset),
			Cells:  cells,
		})
	}
	return rows, nil
}

// Append adds one row below the tab's used range.
func (s *Store) Append(ctx context.Context, collection string, values []string) error {
	cols, err := types.Columns(collection)
	if err != nil {
		return types.NewStoreError(types.ErrKindNotFound, collection, err)
	}

	row := make([]any, len(cols))
	for i := range cols {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}

	vr := &sheetsapi.ValueRange{Values: [][]any{row}}
	_, err = s.srv.Spreadsheets.Values.Append(s.spreadsheetID, collection, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// UpdateCell overwrites a single cell addressed by handle and column.
func (s *Store) UpdateCell(ctx context.Context, collection string, h types.Handle, column, value string) error {
	idx, err := types.ColumnIndex(collection, column)
	if err != nil {
		return err
	}
	if h < types.HeaderOffset {
		return types.NewStoreError(types.ErrKindBadHandle, collection, types.ErrBadHandle)
	}

	cell := fmt.Sprintf("%s!%s%d", collection, columnName(idx), h)
	vr := &sheetsapi.ValueRange{Values: [][]any{{value}}}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, cell, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// DeleteRow removes the sheet row at the handle's position; the rows
// below shift up, which is why handles must be recomputed after.
func (s *Store) DeleteRow(ctx context.Context, collection string, h types.Handle) error {
	if h < types.HeaderOffset {
		return types.NewStoreError(types.ErrKindBadHandle, collection, types.ErrBadHandle)
	}

	sheetID, err := s.sheetID(ctx, collection)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(h - 1), // dimension ranges are zero-based
					EndIndex:   int64(h),
				},
			},
		}},
	}
	_, err = s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// Truncate clears every data row, leaving the header.
func (s *Store) Truncate(ctx context.Context, collection string) error {
	if !types.KnownCollection(collection) {
		return types.NewStoreError(types.ErrKindNotFound, collection, types.ErrUnknownCollection)
	}

	clearRange := fmt.Sprintf("%s!A%d:Z", collection, types.HeaderOffset)
	_, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	return nil
}

// sheetID resolves a tab title to its numeric id, caching the mapping.
func (s *Store) sheetID(ctx context.Context, collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sheetIDs[collection]; ok {
		return id, nil
	}

	meta, err := s.srv.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, types.NewStoreError(types.ErrKindConnectivity, collection, err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}

	id, ok := s.sheetIDs[collection]
	if !ok {
		return 0, types.NewStoreError(types.ErrKindNotFound, collection, types.ErrUnknownCollection)
	}
	return id, nil
}

// columnName converts a zero-based column index to its A1 letter form.
func columnName(idx int) string {
	name := ""
	for idx >= 0 {
		name = string(rune('A'+idx%26)) + name
		idx = idx/26 - 1
	}
	return name
}
