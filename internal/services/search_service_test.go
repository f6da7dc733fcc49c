package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"namescan/internal/config"
	"namescan/internal/session"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.ExcelDir = filepath.Join(base, "excel_output")
	cfg.Paths.ResultsDir = filepath.Join(base, "results")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")
	cfg.Search.Workers = 1
	require.NoError(t, os.MkdirAll(cfg.Paths.ExcelDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.Paths.ResultsDir, 0o755))
	return cfg
}

func writeServiceWorkbook(t *testing.T, dir, name string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for rowIdx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
}

func waitForState(t *testing.T, svc *SearchService, want session.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return svc.Session().State() == want
	}, 5*time.Second, 20*time.Millisecond, "state never reached %s, last error: %s", want, svc.Session().LastError())
}

func TestSearchService_FullRun(t *testing.T) {
	cfg := newTestConfig(t)
	writeServiceWorkbook(t, cfg.Paths.ExcelDir, "suppliers.xlsx", [][]string{
		{"Report"},
		{""},
		{""},
		{""},
		{""},
		{"Part", "Assembly: PN-200"},
		{"Patel Industries", "contact"},
		{"Another Row", "value"},
	})

	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	count, err := svc.LoadNamesFromText("Patel\nShah\n")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.StartSearch(context.Background()))
	waitForState(t, svc, session.StateResultsReady)

	result, tables, err := svc.Results()
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesSearched)
	assert.Equal(t, 2, len(tables.SearchedNames))

	// Patel matched, Shah got its not-found record
	var foundPatel, notFoundShah bool
	for _, rec := range result.Records {
		switch rec.SearchedName {
		case "Patel":
			foundPatel = !rec.IsNotFound()
		case "Shah":
			notFoundShah = rec.IsNotFound()
		}
	}
	assert.True(t, foundPatel)
	assert.True(t, notFoundShah)

	// Report exported into the results dir
	reportPath := svc.ReportPath()
	require.NotEmpty(t, reportPath)
	_, err = os.Stat(reportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(reportPath), "search_results_"))

	status := svc.Status()
	assert.Equal(t, session.StateResultsReady, status.State)
	assert.True(t, status.ReportReady)
}

func TestSearchService_NoWorkbooks(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	_, err := svc.LoadNamesFromText("Patel")
	require.NoError(t, err)

	require.NoError(t, svc.StartSearch(context.Background()))
	waitForState(t, svc, session.StateNamesLoaded)

	assert.Contains(t, svc.Session().LastError(), "no Excel files")
}

func TestSearchService_StartWithoutNames(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	err := svc.StartSearch(context.Background())
	assert.ErrorIs(t, err, session.ErrNoNames)
}

func TestSearchService_DoubleStart(t *testing.T) {
	cfg := newTestConfig(t)
	writeServiceWorkbook(t, cfg.Paths.ExcelDir, "data.xlsx", [][]string{
		{"Patel"},
	})
	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	_, err := svc.LoadNamesFromText("Patel")
	require.NoError(t, err)

	require.NoError(t, svc.StartSearch(context.Background()))
	// Second start either races the quick run to completion or is
	// rejected while running; both are acceptable, a panic is not.
	if err := svc.StartSearch(context.Background()); err != nil {
		assert.ErrorIs(t, err, session.ErrSearchRunning)
	}
	waitForState(t, svc, session.StateResultsReady)
}

func TestSearchService_LoadNamesFromUpload(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	tests := []struct {
		name     string
		filename string
		content  string
		want     int
		wantErr  error
	}{
		{
			name:     "plain text upload",
			filename: "names.txt",
			content:  "Patel\n\nShah\n",
			want:     2,
		},
		{
			name:     "unsupported extension",
			filename: "names.pdf",
			content:  "Patel",
			wantErr:  ErrUnsupportedUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := svc.LoadNamesFromUpload(tt.filename, strings.NewReader(tt.content), "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestSearchService_UploadWorkbookColumn(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewSearchService(cfg, slog.Default(), nil, nil)

	dir := t.TempDir()
	writeServiceWorkbook(t, dir, "names.xlsx", [][]string{
		{"ID", "Name"},
		{"1", "Patel"},
		{"2", "Shah"},
		{"3", ""},
	})

	f, err := os.Open(filepath.Join(dir, "names.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	count, err := svc.LoadNamesFromUpload("names.xlsx", f, "Name")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"Patel", "Shah"}, svc.Names())
}
