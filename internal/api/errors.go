package api

import (
	"encoding/json"
	"net/http"

	"lifesuite/internal/errors"
)

// ErrorBody is the payload of an HTTP error response.
type ErrorBody struct {
	Code           errors.ErrorCode   `json:"code"`
	Message        string             `json:"message"`
	Details        interface{}        `json:"details,omitempty"`
	SuggestedFixes []errors.FixAction `json:"suggestedFixes,omitempty"`
}

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError writes err with the status its code maps to.
func WriteError(w http.ResponseWriter, err error) {
	e, ok := errors.AsError(err)
	if !ok {
		writeErrorBody(w, http.StatusInternalServerError, errors.InternalError, err.Error())
		return
	}
	WriteJSON(w, ErrorResponse{Error: ErrorBody{
		Code:           e.Code,
		Message:        e.Message,
		Details:        e.Details,
		SuggestedFixes: e.SuggestedFixes,
	}}, MapErrorToStatus(e.Code))
}

func writeErrorBody(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	WriteJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}

// MapErrorToStatus maps error codes to HTTP status codes
func MapErrorToStatus(code errors.ErrorCode) int {
	switch code {
	case errors.AuthenticationFailed:
		return http.StatusUnauthorized
	case errors.RateLimited:
		return http.StatusTooManyRequests
	case errors.UnknownOperation:
		return http.StatusNotFound
	case errors.MissingParameter, errors.InvalidParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
