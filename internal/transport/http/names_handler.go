package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "namescan/internal/errors"
	"namescan/internal/services"
	"namescan/internal/session"
)

// maxUploadSize caps name list uploads at 8 MiB.
const maxUploadSize = 8 << 20

// NamesHandler manages the loaded name list.
type NamesHandler struct {
	service  SearchServiceInterface
	logger   *slog.Logger
	validate *validator.Validate
}

// NewNamesHandler creates a new names handler.
func NewNamesHandler(service SearchServiceInterface, logger *slog.Logger) *NamesHandler {
	return &NamesHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "names_handler")),
		validate: validator.New(),
	}
}

// Routes returns the name list routes.
func (h *NamesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetNames)
	r.Post("/", h.LoadNames)
	r.Delete("/", h.ClearNames)
	r.Post("/upload", h.UploadNames)

	return r
}

// LoadNamesRequest is the body of POST /api/names.
type LoadNamesRequest struct {
	Names []string `json:"names" validate:"omitempty,dive,min=1"`
	Text  string   `json:"text"`
}

// GetNames handles GET /api/names.
func (h *NamesHandler) GetNames(w http.ResponseWriter, r *http.Request) {
	names := h.service.Names()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"names":  names,
		"count":  len(names),
	})
}

// LoadNames handles POST /api/names. Names may arrive as a JSON array
// or as one newline separated text block.
func (h *NamesHandler) LoadNames(w http.ResponseWriter, r *http.Request) {
	var req LoadNamesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	text := req.Text
	if len(req.Names) > 0 {
		text = strings.Join(req.Names, "\n")
	}

	count, err := h.service.LoadNamesFromText(text)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  count,
	})
}

// UploadNames handles POST /api/names/upload with a multipart file. For
// workbook uploads the optional "column" form field selects the column
// to read names from.
func (h *NamesHandler) UploadNames(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, apierrors.ErrValidation("file", "Upload must include a file field"))
		return
	}
	defer file.Close()

	column := r.FormValue("column")
	count, err := h.service.LoadNamesFromUpload(header.Filename, file, column)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedUpload) {
			respondError(w, r, apierrors.ErrValidation("file", err.Error()))
			return
		}
		h.handleSessionError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "name list uploaded",
		slog.String("filename", header.Filename),
		slog.Int("count", count),
	)
	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"count":    count,
		"filename": header.Filename,
	})
}

// ClearNames handles DELETE /api/names.
func (h *NamesHandler) ClearNames(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearNames(); err != nil {
		h.handleSessionError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

func (h *NamesHandler) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyNames):
		respondError(w, r, apierrors.ErrEmptyNameList)
	case errors.Is(err, session.ErrNoNames):
		respondError(w, r, apierrors.ErrNoNamesLoaded)
	case errors.Is(err, session.ErrSearchRunning):
		respondError(w, r, apierrors.ErrSearchRunning)
	default:
		h.logger.ErrorContext(r.Context(), "name list operation failed", slog.String("error", err.Error()))
		respondError(w, r, apierrors.InvalidRequestWithError(err))
	}
}
