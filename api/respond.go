package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Response too large","status":"error"}`))
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError maps err onto a status code and an ErrorResponse body.
// Validation failures carry their field messages in "fields".
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	if fields, ok := errs.AsValidation(err); ok {
		r.WriteJSONStatus(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation error",
			Status: "validation_error",
			Fields: fields,
		})
		return
	}

	apiErr := asApiErr(err)
	if apiErr == nil {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Details: "An unexpected error occurred",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(err).Int("status", apiErr.StatusCode).Msg("request failed")
	}
	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// asApiErr finds an ApiErr in err or translates the domain errors that
// have a fixed status.
func asApiErr(err error) *errs.ApiErr {
	var apiErr *errs.ApiErr
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, storage.ErrNotImage):
		return errs.NewUnsupportedMediaTypeError("file", "image/*")
	case errors.Is(err, storage.ErrTooLarge):
		return errs.NewMaxBodySizeExceededError(storage.MaxImageSize)
	case errors.Is(err, storage.ErrInvalidFolder):
		return errs.NewInvalidFieldError("folder", "must be portraits or portfolio")
	case errors.Is(err, storage.ErrUploadFailed):
		return errs.NewServiceUnavailableError(storage.ErrUploadFailed.Error(), err)
	case errors.Is(err, catalog.ErrUnavailable):
		return errs.NewServiceUnavailableError("record store unavailable", err)
	default:
		return nil
	}
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	if errors.Is(cause, catalog.ErrUnavailable) {
		return cause
	}
	return errs.NewDatabaseError(operation, entity, cause)
}
