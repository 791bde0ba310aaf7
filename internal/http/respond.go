package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rentfolio/api/internal/apperror"
)

// rpcError is the wire shape of every failure.
type rpcError struct {
	Code    apperror.Code    `json:"code"`
	Message string           `json:"message"`
	Issues  []apperror.Issue `json:"issues,omitempty"`
}

type errorEnvelope struct {
	Error rpcError `json:"error"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends a structured error envelope.
func writeError(w http.ResponseWriter, status int, code apperror.Code, message string, issues []apperror.Issue) {
	writeJSON(w, status, errorEnvelope{Error: rpcError{Code: code, Message: message, Issues: issues}})
}

// writeAppError translates a domain failure into its transport error. Errors
// outside the taxonomy collapse to a generic internal message; the cause is
// logged elsewhere, never echoed.
func writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperror.From(err); ok {
		message := appErr.Message
		if appErr.Code == apperror.CodeInternal {
			message = "internal server error"
		}
		writeError(w, appErr.HTTPStatus(), appErr.Code, message, appErr.Issues)
		return
	}
	writeError(w, http.StatusInternalServerError, apperror.CodeInternal, "internal server error", nil)
}
