package httputil

import (
	"encoding/json"
	"net/http"
)

// APIError is the structured error body returned by all endpoints.
type APIError struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, requestID string, statusCode int, errType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(APIError{
		Error:     errType,
		Detail:    detail,
		RequestID: requestID,
	})
}

func WriteBadRequest(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusBadRequest, "invalid_request", detail)
}

func WriteNotFound(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusNotFound, "not_found", detail)
}

func WriteForbidden(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusForbidden, "access_denied", detail)
}

func WriteUnauthorized(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusUnauthorized, "authentication_error", detail)
}

func WriteRateLimited(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusTooManyRequests, "rate_limit_exceeded", detail)
}

func WriteInternal(w http.ResponseWriter, requestID, detail string) {
	WriteError(w, requestID, http.StatusInternalServerError, "internal_error", detail)
}
