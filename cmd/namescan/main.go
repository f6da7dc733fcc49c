package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"namescan/internal/config"
	"namescan/internal/exporter"
	"namescan/internal/files"
	"namescan/internal/infrastructure"
	"namescan/internal/namelist"
	"namescan/internal/search"
	"namescan/internal/validation"
)

func main() {
	names := flag.String("names", "", "comma separated names to search for")
	namesFile := flag.String("names-file", "", "text file with one name per line")
	namesExcel := flag.String("names-excel", "", "Excel workbook to read names from")
	column := flag.String("column", "", "column header for -names-excel (defaults to the first column)")
	listColumns := flag.Bool("list-columns", false, "print the column headers of -names-excel and exit")
	dir := flag.String("dir", "", "directory with Excel files to search (defaults to configured excel dir)")
	out := flag.String("out", "", "directory for the result workbook (defaults to configured results dir)")
	workers := flag.Int("workers", 0, "number of workbooks to scan in parallel (defaults to configured value)")
	tokenRows := flag.Bool("token-rows", false, "report the leading token of the matched cell instead of the row number")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *listColumns {
		if *namesExcel == "" {
			fmt.Fprintln(os.Stderr, "-list-columns requires -names-excel")
			os.Exit(2)
		}
		columns, err := namelist.Columns(*namesExcel)
		if err != nil {
			logger.Error("Failed to read workbook header", "file", *namesExcel, "error", err)
			os.Exit(1)
		}
		for _, col := range columns {
			fmt.Println(col)
		}
		return
	}

	if *dir == "" {
		*dir = cfg.Paths.ExcelDir
	}
	if *out == "" {
		*out = cfg.Paths.ResultsDir
	}
	if *workers <= 0 {
		*workers = cfg.Search.Workers
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*dir); err != nil {
		logger.Error("Invalid input directory", "error", err)
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*out); err != nil {
		logger.Error("Invalid output directory", "error", err)
		os.Exit(1)
	}

	nameList, err := collectNames(*names, *namesFile, *namesExcel, *column)
	if err != nil {
		logger.Error("Failed to read names", "error", err)
		os.Exit(1)
	}
	if len(nameList) == 0 {
		fmt.Fprintln(os.Stderr, "no names given; use -names, -names-file or -names-excel")
		flag.Usage()
		os.Exit(2)
	}

	discovery := files.NewDiscovery(*dir)
	workbooks, err := discovery.Find()
	if err != nil {
		logger.Error("Failed to list Excel files", "dir", *dir, "error", err)
		os.Exit(1)
	}
	files.SortByName(workbooks)

	logger.Info("Starting search",
		slog.Int("names", len(nameList)),
		slog.Int("workbooks", len(workbooks)),
		slog.String("dir", *dir),
	)

	aggregator := search.NewAggregator(logger,
		search.WithWorkers(*workers),
		search.WithScanOptions(search.ScanOptions{TokenRowIndicator: *tokenRows}),
	)

	observer := search.ObserverFunc(func(ev search.ProgressEvent) {
		if ev.Err != nil {
			logger.Warn("Workbook skipped",
				slog.String("file", ev.File),
				slog.String("error", ev.Err.Error()),
			)
			return
		}
		fmt.Printf("[%d/%d] %s: %d matches\n", ev.Index, ev.Total, ev.File, ev.Matches)
	})

	result, err := aggregator.Run(context.Background(), workbooks, nameList, observer)
	if err != nil {
		logger.Error("Search failed", "error", err)
		os.Exit(1)
	}

	tables := search.BuildReport(result, search.ReportOptions{IncludeFile: true})
	writer := exporter.NewExcelWriter(*out, logger)
	reportPath, err := writer.Write(tables, result.CompletedAt)
	if err != nil {
		logger.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Searched %d files, %d matches. Report: %s\n",
		result.FilesSearched, result.MatchCount(), reportPath)
}

// collectNames merges the three name sources. Flags may be combined;
// duplicates are kept so the report mirrors the input.
func collectNames(inline, textFile, excelFile, column string) ([]string, error) {
	var names []string

	if inline != "" {
		for _, name := range strings.Split(inline, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}
	}

	if textFile != "" {
		f, err := os.Open(textFile)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", textFile, err)
		}
		defer f.Close()
		fromFile, err := namelist.FromReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", textFile, err)
		}
		names = append(names, fromFile...)
	}

	if excelFile != "" {
		fromBook, err := namelist.FromWorkbookColumn(excelFile, column)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", excelFile, err)
		}
		names = append(names, fromBook...)
	}

	return names, nil
}
