package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Ad2m1109/Spendora/internal/core"
)

// decodeJSON reads a single JSON object into dst. Malformed bodies become
// validation errors so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return core.NewValidationError("body", "must not be empty")
		case errors.As(err, &maxErr):
			return core.NewValidationError("body", fmt.Sprintf("must not exceed %d bytes", maxErr.Limit))
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return core.NewValidationError(typeErr.Field, "has the wrong type")
		default:
			return core.NewValidationError("body", "must be valid JSON")
		}
	}
	if dec.More() {
		return core.NewValidationError("body", "must contain a single JSON object")
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	return parseID("id", chi.URLParam(r, "id"))
}

// queryUserID parses the required userId query parameter.
func queryUserID(r *http.Request) (int64, error) {
	return parseID("userId", r.URL.Query().Get("userId"))
}

func parseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, core.NewValidationError(field, "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError(field, "must be a positive id")
	}
	return id, nil
}

// requireUserID validates a userId taken from a JSON body.
func requireUserID(id int64) error {
	if id <= 0 {
		return core.NewValidationError("userId", "must be a positive id")
	}
	return nil
}
