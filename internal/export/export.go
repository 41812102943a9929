// Package export serializes the five collections into a multi-sheet xlsx
// workbook. Pure format conversion: one sheet per collection, header row
// first, rows in store order.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Workbook builds the xlsx file from a full scan of every collection.
func Workbook(ctx context.Context, store types.RecordStore) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, collection := range types.CollectionNames {
		cols, err := types.Columns(collection)
		if err != nil {
			return nil, err
		}
		if _, err := f.NewSheet(collection); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", collection, err)
		}

		header := make([]any, len(cols))
		for i, c := range cols {
			header[i] = c
		}
		if err := f.SetSheetRow(collection, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", collection, err)
		}

		rows, err := store.Rows(ctx, collection)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			values := make([]any, len(cols))
			for j, c := range cols {
				values[j] = row.Cell(c)
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(collection, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %s: %w", collection, err)
			}
		}
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

// Write streams the workbook to w.
func Write(ctx context.Context, store types.RecordStore, w io.Writer) error {
	f, err := Workbook(ctx, store)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
