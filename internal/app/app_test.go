package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"namescan/internal/config"
	"namescan/internal/infrastructure"
	"namescan/internal/session"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()

	base := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Port = 0
	cfg.Server.ReadTimeout = 15 * time.Second
	cfg.Server.WriteTimeout = 15 * time.Second
	cfg.Server.IdleTimeout = time.Minute
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Logging.Level = "error"
	cfg.Logging.Output = "console"
	cfg.Paths.ExcelDir = filepath.Join(base, "excel_output")
	cfg.Paths.ResultsDir = filepath.Join(base, "results")
	cfg.Paths.LogsDir = filepath.Join(base, "logs")
	cfg.Search.Workers = 1
	// EnsureDirectories leaves the Excel dir alone, so fixtures need it
	// created up front.
	require.NoError(t, os.MkdirAll(cfg.Paths.ExcelDir, 0o755))

	app, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)
	app.WebSocketHub.Start()
	t.Cleanup(app.WebSocketHub.Stop)
	return app
}

func writeAppWorkbook(t *testing.T, dir, name string, rows [][]string) {
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

func doRequest(t *testing.T, app *Application, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestApplication_Health(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "namescan_")
}

func TestApplication_SearchFlow(t *testing.T) {
	app := newTestApp(t)
	writeAppWorkbook(t, app.Config.Paths.ExcelDir, "vendors.xlsx", [][]string{
		{"Report"},
		{""},
		{""},
		{""},
		{""},
		{"Part", "Unit: PN-300"},
		{"Patel Industries"},
	})

	rec := doRequest(t, app, http.MethodPost, "/api/names", map[string]interface{}{
		"names": []string{"Patel", "Shah"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, app, http.MethodPost, "/api/search", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return app.SearchService.Session().State() == session.StateResultsReady
	}, 5*time.Second, 20*time.Millisecond)

	rec = doRequest(t, app, http.MethodGet, "/api/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Patel")
	assert.Contains(t, rec.Body.String(), "Not Found")

	rec = doRequest(t, app, http.MethodGet, "/api/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "search_results_")
}

func TestApplication_SearchWithoutNames(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(t, app, http.MethodPost, "/api/search", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_NAMES_LOADED")
}
