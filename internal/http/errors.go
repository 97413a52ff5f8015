package http

import (
	"errors"
	"net/http"

	"github.com/Ad2m1109/Spendora/internal/core"
	"github.com/Ad2m1109/Spendora/internal/log"
)

// respondError maps the domain error taxonomy onto status codes. Anything
// unrecognised is logged and reported as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *core.ValidationError
	var ce *core.ConflictError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusBadRequest, ce.Message)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		log.FromContext(r.Context()).LogError(r.Context(), "Request failed", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondAffected writes msg when a write touched a row and 404 otherwise.
func respondAffected(w http.ResponseWriter, n int64, msg, notFound string) {
	if n == 0 {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
