// Package workbook decodes spreadsheet files into plain string grids.
// Modern .xlsx files are read with excelize; legacy .xls (BIFF) files are
// read with the xlrd port, which excelize cannot handle.
package workbook

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sheet is one tabular page of a decoded workbook. Rows hold the cell
// contents as strings; trailing empty cells may be absent, matching the
// underlying decoders.
type Sheet struct {
	Name string
	Rows [][]string
}

// Document is a fully decoded workbook.
type Document struct {
	FileName string
	Sheets   []Sheet
}

// Open decodes the workbook at path, choosing the decoder by extension.
func Open(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return openXLSX(path)
	case ".xls":
		return openXLS(path)
	default:
		return nil, fmt.Errorf("unsupported workbook format: %s", filepath.Base(path))
	}
}

// FirstSheetRows decodes only the first sheet of the workbook at path and
// returns at most maxRows rows. Used by the part-number heuristic, which
// inspects a fixed header region.
func FirstSheetRows(path string, maxRows int) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return firstSheetRowsXLSX(path, maxRows)
	case ".xls":
		return firstSheetRowsXLS(path, maxRows)
	default:
		return nil, fmt.Errorf("unsupported workbook format: %s", filepath.Base(path))
	}
}

func truncateRows(rows [][]string, maxRows int) [][]string {
	if maxRows >= 0 && len(rows) > maxRows {
		return rows[:maxRows]
	}
	return rows
}
