package apiserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"social-go/internal/services"
)

// MessageResponse is the generic {message} success body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the generic error body. Detail carries the structured
// payload of a service error when one exists (e.g. password policy reasons).
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  any    `json:"error,omitempty"`
}

// writeJSONResponse sends data as a JSON response with the given status.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeJSONError sends a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, statusCode, ErrorResponse{Message: message})
}

// statusForKind maps a service error kind to its HTTP status. This is the
// single place the taxonomy meets transport codes.
func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case services.KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reflects a typed service error to the client and hides
// everything else behind a generic 500.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := statusForKind(svcErr.Kind)
		if status == http.StatusInternalServerError {
			logger.Error("internal service error", zap.Error(err))
			writeJSONError(w, svcErr.Message, status)
			return
		}
		writeJSONResponse(w, status, ErrorResponse{Message: svcErr.Message, Detail: svcErr.Detail})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeJSONError(w, "internal server error", http.StatusInternalServerError)
}
