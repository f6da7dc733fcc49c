package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "namescan/internal/errors"
	"namescan/internal/middleware"
	"namescan/internal/session"
)

// SearchHandler starts search runs and reports their status.
type SearchHandler struct {
	service SearchServiceInterface
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service SearchServiceInterface, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger.With(slog.String("component", "search_handler")),
	}
}

// Routes returns the search routes.
func (h *SearchHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartSearch)
	r.Get("/", h.GetStatus)

	return r
}

// StartSearch handles POST /api/search. The run executes in the
// background; clients follow progress over the websocket or by polling
// GET /api/search.
func (h *SearchHandler) StartSearch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if err := h.service.StartSearch(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "search start rejected",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		switch {
		case errors.Is(err, session.ErrNoNames):
			respondError(w, r, apierrors.ErrNoNamesLoaded)
		case errors.Is(err, session.ErrSearchRunning):
			respondError(w, r, apierrors.ErrSearchRunning)
		default:
			respondError(w, r, apierrors.ErrSearchExecution(err))
		}
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"status": "started",
	})
}

// GetStatus handles GET /api/search.
func (h *SearchHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}
