package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"namescan/internal/files"
	"namescan/internal/workbook"
)

// sheetData is a named grid of cells used to build test workbooks.
type sheetData struct {
	name string
	rows [][]string
}

// writeWorkbook creates an .xlsx file with the given sheets and returns
// its FileInfo for feeding into the aggregator.
func writeWorkbook(t *testing.T, dir, name string, sheets []sheetData) files.FileInfo {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for rowIdx, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			require.NoError(t, err)
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			require.NoError(t, f.SetSheetRow(sheet.name, cell, &values))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return files.FileInfo{Path: path, Name: name}
}

// headerRows returns a six-row header grid whose sixth row carries the
// given part-number cell, followed by the supplied data rows.
func headerRows(partCell string, dataRows ...[]string) [][]string {
	rows := [][]string{
		{"Report"},
		{""},
		{""},
		{""},
		{""},
		{"Some label", partCell},
	}
	return append(rows, dataRows...)
}

// openDoc decodes a test workbook for direct scanner calls.
func openDoc(t *testing.T, file files.FileInfo) *workbook.Document {
	t.Helper()
	doc, err := workbook.Open(file.Path)
	require.NoError(t, err)
	return doc
}
