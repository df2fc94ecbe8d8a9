package api

import (
	"encoding/json"
	"errors"
	"net/http"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/logger"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Get().Debugw("failed to encode response", "error", err)
		}
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *kanerr.NotFoundError
	var alreadyExists *kanerr.AlreadyExistsError
	var validation *kanerr.ValidationError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &alreadyExists):
		status = http.StatusConflict
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case kanerr.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Get().Errorw("request failed", "error", err)
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

// NotFound writes a 404 error for a missing resource.
func NotFound(w http.ResponseWriter, resource, id string) {
	Error(w, &kanerr.NotFoundError{Resource: resource, ID: id})
}
