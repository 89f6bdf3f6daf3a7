package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/upstream"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, apperrors.Validation("Invalid JSON body"))
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// errorBody is the wire shape for all error responses. The "error" key
// carries the short machine-readable kind; "message" carries the
// human-readable text the frontend displays.
type errorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// WriteError maps an error to its HTTP status and writes the JSON error body.
// Unrecognized errors become opaque internal errors.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("Internal server error")
	}

	WriteJSON(w, apperrors.HTTPStatus(appErr), errorBody{
		Error:   string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// WriteRelay passes an upstream response through to the client unchanged.
func WriteRelay(w http.ResponseWriter, resp upstream.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
