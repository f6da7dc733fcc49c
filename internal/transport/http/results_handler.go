package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "namescan/internal/errors"
	"namescan/internal/session"
)

// ResultsHandler serves the latest run results and the exported report.
type ResultsHandler struct {
	service SearchServiceInterface
	logger  *slog.Logger
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(service SearchServiceInterface, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "results_handler")),
	}
}

// Routes returns the results routes.
func (h *ResultsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetResults)
	return r
}

// GetResults handles GET /api/results with the aggregated records and
// summary tables of the latest completed run.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	result, tables, err := h.service.Results()
	if err != nil {
		if errors.Is(err, session.ErrNoResults) {
			respondError(w, r, apierrors.ErrNoResults)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to read results", slog.String("error", err.Error()))
		respondError(w, r, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"run": map[string]interface{}{
			"run_id":         result.RunID,
			"files_searched": result.FilesSearched,
			"failed_files":   result.FailedFiles,
			"match_count":    result.MatchCount(),
			"started_at":     result.StartedAt,
			"completed_at":   result.CompletedAt,
		},
		"records":        tables.Records,
		"by_name":        tables.ByName,
		"by_file":        tables.ByFile,
		"by_part_number": tables.ByPartNumber,
		"searched_names": tables.SearchedNames,
	})
}

// DownloadReport handles GET /api/report, streaming the latest exported
// workbook as an attachment.
func (h *ResultsHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	path := h.service.ReportPath()
	if path == "" {
		respondError(w, r, apierrors.ErrReportNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		h.logger.ErrorContext(r.Context(), "report file missing",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		respondError(w, r, apierrors.ErrReportNotFound)
		return
	}

	filename := filepath.Base(path)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}
