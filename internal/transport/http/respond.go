package http

import (
	"net/http"

	"github.com/go-chi/render"

	apierrors "namescan/internal/errors"
)

// respondError writes a structured error envelope with the status code
// carried by the API error.
func respondError(w http.ResponseWriter, r *http.Request, err *apierrors.APIError) {
	if renderErr := render.Render(w, r, apierrors.NewErrorResponse(err)); renderErr != nil {
		http.Error(w, err.Message, err.StatusCode)
	}
}
