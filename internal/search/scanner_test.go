package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanWorkbookBasicMatch(t *testing.T) {
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"header"},
			{"Patel family", "unrelated"},
		}},
	})

	set := CompilePatterns([]string{"Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, "Patel", records[0].SearchedName)
	assert.Equal(t, "book.xlsx", records[0].FileName)
	assert.Equal(t, "Data", records[0].SheetName)
	assert.Equal(t, "Patel family", records[0].MatchedContent)
	assert.Equal(t, ".*Patel.*", records[0].Pattern)
	// 0-based row 1 plus the fixed 2-row adjustment
	assert.Equal(t, "3", records[0].RowIndicator)
}

func TestScanWorkbookFirstPatternWins(t *testing.T) {
	// The cell matches both names; only the first pattern in declared
	// order contributes a record.
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"Patel and Shah together"},
		}},
	})

	set := CompilePatterns([]string{"Shah", "Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, "Shah", records[0].SearchedName)
}

func TestScanWorkbookCaseInsensitiveVariant(t *testing.T) {
	// "PATEL" misses the case-sensitive pattern but hits the
	// case-insensitive one; exactly one record results, not two.
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"PATEL"},
		}},
	})

	set := CompilePatterns([]string{"Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, "Patel", records[0].SearchedName)
	assert.Equal(t, "(?i).*Patel.*", records[0].Pattern)
}

func TestScanWorkbookSkipsEmptyCells(t *testing.T) {
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"", "", "Patel"},
			{""},
			{},
		}},
	})

	set := CompilePatterns([]string{"Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	assert.Len(t, records, 1)
}

func TestScanWorkbookScanOrder(t *testing.T) {
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Alpha", rows: [][]string{
			{"Patel one", "Patel two"},
			{"Patel three"},
		}},
		{name: "Beta", rows: [][]string{
			{"Patel four"},
		}},
	})

	set := CompilePatterns([]string{"Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	require.Len(t, records, 4)
	// Sheet order, then row order, then column order
	assert.Equal(t, "Patel one", records[0].MatchedContent)
	assert.Equal(t, "Patel two", records[1].MatchedContent)
	assert.Equal(t, "Patel three", records[2].MatchedContent)
	assert.Equal(t, "Patel four", records[3].MatchedContent)
}

func TestScanWorkbookMultipleMatchesAcrossCells(t *testing.T) {
	// One record per matching cell, even for the same name.
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"Patel", "Shah"},
			{"patel lower"},
		}},
	})

	set := CompilePatterns([]string{"Patel", "Shah"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{})

	require.Len(t, records, 3)
	assert.Equal(t, "Patel", records[0].SearchedName)
	assert.Equal(t, "Shah", records[1].SearchedName)
	assert.Equal(t, "Patel", records[2].SearchedName)
}

func TestScanWorkbookTokenRowIndicator(t *testing.T) {
	file := writeWorkbook(t, t.TempDir(), "book.xlsx", []sheetData{
		{name: "Data", rows: [][]string{
			{"1204 Patel Ramanbhai"},
		}},
	})

	set := CompilePatterns([]string{"Patel"})
	records := ScanWorkbook(openDoc(t, file), set, ScanOptions{TokenRowIndicator: true})

	require.Len(t, records, 1)
	assert.Equal(t, "1204", records[0].RowIndicator)
}

func TestRowIndicator(t *testing.T) {
	tests := []struct {
		name   string
		rowIdx int
		cell   string
		opts   ScanOptions
		want   string
	}{
		{"adjusted row number", 0, "Patel", ScanOptions{}, "2"},
		{"deeper row", 10, "Patel", ScanOptions{}, "12"},
		{"leading token", 3, "42 Patel", ScanOptions{TokenRowIndicator: true}, "42"},
		{"token with leading spaces", 3, "   42 Patel", ScanOptions{TokenRowIndicator: true}, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowIndicator(tt.rowIdx, tt.cell, tt.opts))
		})
	}
}
