package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/travelog/travelog/internal/apierror"
	"github.com/travelog/travelog/internal/maps"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// validationDetail is the structured error payload of a 400 validation failure.
type validationDetail struct {
	Message string               `json:"message"`
	Fields  []service.FieldError `json:"fields"`
}

// errorWriter maps service errors onto the error envelope.
// Handlers embed it to share one mapping.
type errorWriter struct {
	logger *slog.Logger
}

// writeServiceError maps service errors to HTTP responses.
// Unrecognized errors are logged and answered with a generic 500.
func (e *errorWriter) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeValidation, validationDetail{
			Message: "validation failed",
			Fields:  validationErr.Fields,
		})
	case errors.Is(err, maps.ErrMissingParameter):
		apierror.Write(w, r, http.StatusBadRequest, apierror.CodeBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierror.Write(w, r, http.StatusNotFound, apierror.CodeNotFound, clientMessage(err))
	case errors.Is(err, service.ErrUnauthorized):
		apierror.Write(w, r, http.StatusUnauthorized, apierror.CodeUnauthorized, clientMessage(err))
	case errors.Is(err, service.ErrConflict):
		apierror.Write(w, r, http.StatusConflict, apierror.CodeConflict, clientMessage(err))
	default:
		e.logger.Error("internal_error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		apierror.Internal(w, r)
	}
}

// clientMessage returns the client-safe message of a classified error.
func clientMessage(err error) string {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return svcErr.Error()
	}
	return err.Error()
}
