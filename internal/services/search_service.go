// Package services contains the application service layer that sits
// between the HTTP transport and the search core. Handlers stay thin;
// orchestration of runs, report building and export lives here.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"namescan/internal/config"
	"namescan/internal/exporter"
	"namescan/internal/files"
	"namescan/internal/infrastructure"
	"namescan/internal/namelist"
	"namescan/internal/search"
	"namescan/internal/session"
	"namescan/internal/websocket"
	"namescan/pkg/contracts/domain"
)

// Service layer errors.
var (
	ErrUnsupportedUpload = errors.New("unsupported upload file type")
)

// SearchStatus is the externally visible state of the search lifecycle.
type SearchStatus struct {
	State       session.State `json:"state"`
	NamesLoaded int           `json:"names_loaded"`
	LastError   string        `json:"last_error,omitempty"`
	ReportReady bool          `json:"report_ready"`
	ReportFile  string        `json:"report_file,omitempty"`
}

// SearchService orchestrates the full search lifecycle: loading names,
// running a scan over the configured Excel folder, building the report
// tables and exporting them to a timestamped workbook.
type SearchService struct {
	cfg        *config.Config
	logger     *slog.Logger
	session    *session.Session
	discovery  *files.Discovery
	aggregator *search.Aggregator
	writer     *exporter.ExcelWriter
	hub        *websocket.Hub
}

// NewSearchService wires the search core to the session state. The hub
// is optional; when nil no progress is broadcast.
func NewSearchService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics, hub *websocket.Hub) *SearchService {
	aggregator := search.NewAggregator(logger,
		search.WithWorkers(cfg.Search.Workers),
		search.WithScanOptions(search.ScanOptions{TokenRowIndicator: cfg.Search.TokenRowIndicator}),
		search.WithMetrics(metrics),
	)
	return &SearchService{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "search_service")),
		session:    session.New(),
		discovery:  files.NewDiscovery(cfg.Paths.ExcelDir),
		aggregator: aggregator,
		writer:     exporter.NewExcelWriter(cfg.Paths.ResultsDir, logger),
		hub:        hub,
	}
}

// Session exposes the underlying session for handlers that only need
// state queries.
func (s *SearchService) Session() *session.Session {
	return s.session
}

// LoadNamesFromText parses a newline separated block of names and loads
// them into the session. Returns the number of names loaded.
func (s *SearchService) LoadNamesFromText(text string) (int, error) {
	names := namelist.FromText(text)
	if err := s.session.LoadNames(names); err != nil {
		return 0, err
	}
	s.logger.Info("names loaded", slog.Int("count", len(names)), slog.String("source", "text"))
	return len(names), nil
}

// LoadNamesFromUpload loads names from an uploaded file. Plain text
// files are read line by line; Excel workbooks are read from the given
// column of the first sheet.
func (s *SearchService) LoadNamesFromUpload(filename string, r io.Reader, column string) (int, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		names []string
		err   error
	)
	switch ext {
	case ".txt", ".csv", "":
		names, err = namelist.FromReader(r)
	case ".xlsx", ".xls":
		names, err = s.namesFromWorkbookUpload(r, ext, column)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedUpload, ext)
	}
	if err != nil {
		return 0, err
	}
	if err := s.session.LoadNames(names); err != nil {
		return 0, err
	}
	s.logger.Info("names loaded",
		slog.Int("count", len(names)),
		slog.String("source", filename),
	)
	return len(names), nil
}

// namesFromWorkbookUpload spools the upload to a temp file because the
// workbook readers need a seekable path.
func (s *SearchService) namesFromWorkbookUpload(r io.Reader, ext, column string) ([]string, error) {
	tmp, err := os.CreateTemp("", "namescan-upload-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}
	return namelist.FromWorkbookColumn(tmp.Name(), column)
}

// Names returns the currently loaded name list.
func (s *SearchService) Names() []string {
	return s.session.Names()
}

// ClearNames resets the session back to idle.
func (s *SearchService) ClearNames() error {
	return s.session.Clear()
}

// StartSearch transitions the session into the running state and kicks
// off the scan in the background. It returns immediately; progress is
// streamed over the hub and the final state lands in the session.
func (s *SearchService) StartSearch(ctx context.Context) error {
	if err := s.session.BeginSearch(); err != nil {
		return err
	}

	names := s.session.Names()
	s.logger.InfoContext(ctx, "search started", slog.Int("names", len(names)))
	go s.runSearch(names)
	return nil
}

func (s *SearchService) runSearch(names []string) {
	start := time.Now()
	s.broadcastStatus(session.StateRunning, "")

	// The run outlives the HTTP request that started it.
	ctx := context.Background()

	workbooks, err := s.discovery.Find()
	if err != nil {
		s.failSearch(fmt.Errorf("discovering workbooks: %w", err))
		return
	}
	files.SortByName(workbooks)

	var observer search.Observer
	if s.hub != nil {
		observer = websocket.NewProgressBroadcaster(s.hub)
	}

	result, err := s.aggregator.Run(ctx, workbooks, names, observer)
	if err != nil {
		s.failSearch(err)
		return
	}

	tables := search.BuildReport(result, search.ReportOptions{IncludeFile: true})
	reportPath, err := s.writer.Write(tables, result.CompletedAt)
	if err != nil {
		s.failSearch(fmt.Errorf("writing report: %w", err))
		return
	}

	s.session.CompleteSearch(result, tables)
	s.session.SetReportPath(reportPath)

	s.logger.Info("search completed",
		slog.String("run_id", result.RunID),
		slog.Int("files_searched", result.FilesSearched),
		slog.Int("matches", result.MatchCount()),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("report", reportPath),
	)
	if s.hub != nil {
		s.hub.Broadcast(websocket.TypeComplete, SearchStatus{
			State:       session.StateResultsReady,
			NamesLoaded: len(names),
			ReportReady: true,
			ReportFile:  filepath.Base(reportPath),
		})
	}
}

func (s *SearchService) failSearch(err error) {
	s.logger.Error("search failed", slog.String("error", err.Error()))
	s.session.FailSearch(err)
	if s.hub != nil {
		s.hub.Broadcast(websocket.TypeError, map[string]string{"error": err.Error()})
	}
}

func (s *SearchService) broadcastStatus(state session.State, detail string) {
	if s.hub == nil {
		return
	}
	payload := map[string]string{"state": string(state)}
	if detail != "" {
		payload["detail"] = detail
	}
	s.hub.Broadcast(websocket.TypeStatus, payload)
}

// Status reports the current search lifecycle state.
func (s *SearchService) Status() SearchStatus {
	status := SearchStatus{
		State:       s.session.State(),
		NamesLoaded: len(s.session.Names()),
		LastError:   s.session.LastError(),
	}
	if path := s.session.ReportPath(); path != "" {
		status.ReportReady = true
		status.ReportFile = filepath.Base(path)
	}
	return status
}

// Results returns the latest run result and report tables.
func (s *SearchService) Results() (*domain.RunResult, *domain.ReportTables, error) {
	return s.session.Results()
}

// ReportPath returns the path of the latest exported report, or empty.
func (s *SearchService) ReportPath() string {
	return s.session.ReportPath()
}
