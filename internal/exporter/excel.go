// Package exporter serializes report tables into a downloadable Excel
// workbook.
package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"namescan/pkg/contracts/domain"
)

// Sheet names of the generated report workbook.
const (
	SheetResults       = "Search_Results"
	SheetSummaryByName = "Summary_by_Name"
	SheetSummaryByFile = "Summary_by_File"
	SheetSummaryByPart = "Summary_by_Part"
	SheetSearchTerms   = "Search_Terms"
)

// ExcelWriter writes report workbooks into a results directory.
type ExcelWriter struct {
	resultsDir string
	logger     *slog.Logger
}

// NewExcelWriter creates a report writer targeting resultsDir.
func NewExcelWriter(resultsDir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		resultsDir: resultsDir,
		logger:     logger.With(slog.String("component", "excel_writer")),
	}
}

// ReportFileName returns the timestamped file name for a report generated
// at the given time.
func ReportFileName(at time.Time) string {
	return fmt.Sprintf("search_results_%s.xlsx", at.Format("20060102_150405"))
}

// Write serializes the report tables into a new workbook and returns the
// path of the written file.
func (w *ExcelWriter) Write(tables *domain.ReportTables, at time.Time) (string, error) {
	if err := os.MkdirAll(w.resultsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeResults(f, tables.Records); err != nil {
		return "", err
	}
	if err := writeSummary(f, SheetSummaryByName, "Searched_Name", tables.ByName); err != nil {
		return "", err
	}
	if tables.ByFile != nil {
		if err := writeSummary(f, SheetSummaryByFile, "File_Name", tables.ByFile); err != nil {
			return "", err
		}
	}
	if err := writeSummary(f, SheetSummaryByPart, "Part_Number", tables.ByPartNumber); err != nil {
		return "", err
	}
	if err := w.writeSearchTerms(f, tables.SearchedNames); err != nil {
		return "", err
	}

	path := filepath.Join(w.resultsDir, ReportFileName(at))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("report written",
		slog.String("path", path),
		slog.Int("records", len(tables.Records)))

	return path, nil
}

// writeResults fills the primary results sheet. The default sheet of a new
// workbook is renamed so the results page comes first.
func (w *ExcelWriter) writeResults(f *excelize.File, records []domain.MatchRecord) error {
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}

	headers := []interface{}{"Searched_Name", "File_Name", "Part_Number", "Row", "Matched_Content", "Search_Pattern"}
	if err := f.SetSheetRow(SheetResults, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.SearchedName,
			rec.FileName,
			rec.PartNumber.String(),
			rec.RowIndicator,
			rec.MatchedContent,
			rec.Pattern,
		}
		if err := f.SetSheetRow(SheetResults, cell, &row); err != nil {
			return fmt.Errorf("failed to write result row %d: %w", i+1, err)
		}
	}

	return nil
}

func writeSummary(f *excelize.File, sheet, keyHeader string, rows []domain.SummaryRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{keyHeader, "Match_Count"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Key, row.Count}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}

	return nil
}

func (w *ExcelWriter) writeSearchTerms(f *excelize.File, names []string) error {
	if _, err := f.NewSheet(SheetSearchTerms); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSearchTerms, err)
	}

	header := []interface{}{"Search_Terms_Used"}
	if err := f.SetSheetRow(SheetSearchTerms, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", SheetSearchTerms, err)
	}

	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{name}
		if err := f.SetSheetRow(SheetSearchTerms, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, SheetSearchTerms, err)
		}
	}

	return nil
}
