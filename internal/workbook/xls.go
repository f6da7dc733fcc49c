package workbook

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/yamitzky/xlrd-go/xlrd"
)

func openXLS(path string) (*Document, error) {
	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{Logfile: io.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer book.ReleaseResources()

	doc := &Document{FileName: filepath.Base(path)}
	for _, sheet := range book.Sheets() {
		doc.Sheets = append(doc.Sheets, Sheet{
			Name: sheet.Name,
			Rows: sheetRows(sheet, -1),
		})
	}

	return doc, nil
}

func firstSheetRowsXLS(path string, maxRows int) ([][]string, error) {
	book, err := xlrd.OpenWorkbook(path, &xlrd.OpenWorkbookOptions{Logfile: io.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer book.ReleaseResources()

	sheet, err := book.SheetByIndex(0)
	if err != nil {
		return nil, nil
	}

	return sheetRows(sheet, maxRows), nil
}

func sheetRows(sheet *xlrd.Sheet, maxRows int) [][]string {
	nrows := sheet.NRows
	if maxRows >= 0 && nrows > maxRows {
		nrows = maxRows
	}

	rows := make([][]string, nrows)
	for rowx := 0; rowx < nrows; rowx++ {
		row := make([]string, sheet.NCols)
		for colx := 0; colx < sheet.NCols; colx++ {
			row[colx] = cellString(sheet.CellType(rowx, colx), sheet.CellValue(rowx, colx))
		}
		rows[rowx] = row
	}
	return rows
}

// cellString renders a BIFF cell as the string a user would see, mirroring
// how the xlsx decoder returns everything as text.
func cellString(ctype int, value interface{}) string {
	switch ctype {
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return ""
	case xlrd.XL_CELL_NUMBER, xlrd.XL_CELL_DATE:
		if f, ok := value.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case xlrd.XL_CELL_BOOLEAN:
		switch v := value.(type) {
		case bool:
			if v {
				return "TRUE"
			}
			return "FALSE"
		case int:
			if v != 0 {
				return "TRUE"
			}
			return "FALSE"
		}
	}

	if s, ok := value.(string); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
