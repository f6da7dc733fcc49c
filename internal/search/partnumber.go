package search

import (
	"strings"

	"namescan/internal/workbook"
	"namescan/pkg/contracts/domain"
)

const (
	// partHeaderDepth is how many rows of the first sheet are inspected.
	partHeaderDepth = 10
	// partHeaderRow is the 0-based index of the header row carrying the
	// "label: value" part-number cell.
	partHeaderRow = 5
)

// ExtractPartNumber derives the workbook's part number from its header
// region. The workbooks follow a fixed layout with a "label: value" style
// cell on the sixth row of the first sheet; this is a positional
// heuristic, not a schema-validated field.
//
// Row 6 is inspected left to right. The first cell containing a colon is
// split on its last colon and the trailing part trimmed; a non-empty
// result wins. Sheets with fewer than six rows, or rows without a
// qualifying cell, yield PartNumberNotAvailable. A workbook that cannot
// be read yields PartNumberError.
func ExtractPartNumber(path string) domain.PartNumber {
	rows, err := workbook.FirstSheetRows(path, partHeaderDepth)
	if err != nil {
		return domain.PartNumberError
	}

	if len(rows) <= partHeaderRow {
		return domain.PartNumberNotAvailable
	}

	for _, cell := range rows[partHeaderRow] {
		if !strings.Contains(cell, ":") {
			continue
		}
		parts := strings.Split(cell, ":")
		value := strings.TrimSpace(parts[len(parts)-1])
		if value != "" {
			return domain.KnownPart(value)
		}
	}

	return domain.PartNumberNotAvailable
}
