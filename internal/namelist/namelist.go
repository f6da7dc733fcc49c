// Package namelist builds the ordered list of search names from the
// supported input sources: a typed text block, an uploaded text file, or a
// chosen column of an uploaded workbook.
package namelist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"namescan/internal/workbook"
)

// FromText extracts names from a free-text block, one name per non-blank
// line. Lines are trimmed; order is preserved and duplicates are kept.
func FromText(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

// FromReader extracts names from line-delimited UTF-8 text content, with
// the same trimming rules as FromText.
func FromReader(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read name list: %w", err)
	}
	return names, nil
}

// Columns returns the header row of the first sheet of the workbook at
// path, for letting the user choose which column holds the names.
func Columns(path string) ([]string, error) {
	rows, err := workbook.FirstSheetRows(path, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook has no header row")
	}
	return rows[0], nil
}

// FromWorkbookColumn extracts names from the named column of the first
// sheet of the workbook at path. The first row is treated as the header;
// an empty column selects the first column. Values are read as strings,
// trimmed, blanks dropped, and deduplicated by value with the first
// occurrence keeping its position.
func FromWorkbookColumn(path, column string) ([]string, error) {
	doc, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	if len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows := doc.Sheets[0].Rows
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook has no header row")
	}

	colIdx := 0
	if column != "" {
		colIdx = -1
		for i, header := range rows[0] {
			if strings.TrimSpace(header) == column {
				colIdx = i
				break
			}
		}
		if colIdx == -1 {
			return nil, fmt.Errorf("column %q not found in workbook", column)
		}
	}

	var names []string
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		if colIdx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[colIdx])
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		names = append(names, value)
	}

	return names, nil
}
