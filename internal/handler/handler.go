package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"product-needs/internal/middleware"
	"product-needs/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the size of entity request bodies.
const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	model.ErrCodeIDExists:        http.StatusBadRequest,
	model.ErrCodeIDNull:          http.StatusBadRequest,
	model.ErrCodeIDNotFound:      http.StatusBadRequest,
	model.ErrCodeInvalidID:       http.StatusBadRequest,
	model.ErrCodeInvalidJSON:     http.StatusBadRequest,
	model.ErrCodeInvalidPaging:   http.StatusBadRequest,
	model.ErrCodeInvalidSort:     http.StatusBadRequest,
	model.ErrCodeValidation:      http.StatusBadRequest,
	model.ErrCodeProductNotFound: http.StatusBadRequest,
	model.ErrCodeCodeExists:      http.StatusConflict,
	model.ErrCodeReferenced:      http.StatusConflict,
	model.ErrCodeNotFound:        http.StatusNotFound,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeProblem writes an error body and the failure alert headers.
func writeProblem(w http.ResponseWriter, r *http.Request, alerts Alerts, entity, key, message string, logger zerolog.Logger) {
	status, ok := statusByCode[key]
	if !ok {
		status = http.StatusInternalServerError
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error_key", key).Int("status", status).Str("path", r.URL.Path).Msg(message)

	alerts.Failure(w, entity, key)
	writeJSON(w, status, model.ErrorResponse{
		Error:         "error." + key,
		Message:       message,
		EntityName:    entity,
		ErrorKey:      key,
		Status:        status,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError translates an error returned by a service.
func writeServiceError(w http.ResponseWriter, r *http.Request, alerts Alerts, entity string, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeProblem(w, r, alerts, entity, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeProblem(w, r, alerts, entity, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeBody decodes a JSON request body into dest.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dest)
}

// pathID parses the {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
