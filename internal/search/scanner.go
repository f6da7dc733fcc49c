package search

import (
	"strconv"
	"strings"

	"namescan/internal/workbook"
	"namescan/pkg/contracts/domain"
)

// rowIndicatorOffset converts the 0-based row offset into the 1-based,
// header-inclusive row number shown in reports.
const rowIndicatorOffset = 2

// ScanOptions controls per-cell record construction.
type ScanOptions struct {
	// TokenRowIndicator reports the leading whitespace-delimited token of
	// the matched cell instead of the adjusted row number.
	TokenRowIndicator bool
}

// ScanWorkbook walks every sheet, row and cell of the decoded workbook in
// order and applies all patterns to every non-empty cell. The first
// pattern (in declared order) that matches a cell wins: a cell contributes
// at most one record, even when several names would match it. Records are
// emitted in scan order; the part number is stamped by the caller.
func ScanWorkbook(doc *workbook.Document, set *PatternSet, opts ScanOptions) []domain.MatchRecord {
	var records []domain.MatchRecord

	for _, sheet := range doc.Sheets {
		for rowIdx, row := range sheet.Rows {
			for _, cell := range row {
				if cell == "" {
					continue
				}
				for i := range set.Patterns {
					p := &set.Patterns[i]
					if !p.Matches(cell) {
						continue
					}
					records = append(records, domain.MatchRecord{
						SearchedName:   p.Name,
						FileName:       doc.FileName,
						SheetName:      sheet.Name,
						RowIndicator:   rowIndicator(rowIdx, cell, opts),
						MatchedContent: cell,
						Pattern:        p.Expr,
					})
					break
				}
			}
		}
	}

	return records
}

func rowIndicator(rowIdx int, cell string, opts ScanOptions) string {
	if opts.TokenRowIndicator {
		fields := strings.Fields(cell)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	}
	return strconv.Itoa(rowIdx + rowIndicatorOffset)
}
