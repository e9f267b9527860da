package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Remote failures are
	// deliberately generic: the detail was already logged at dispatch.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "session not found"
	case errors.Is(err, domain.ErrMissingRequiredField):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrOperationInFlight):
		return http.StatusConflict, "another operation is in flight"
	case errors.Is(err, domain.ErrBatchNotFound):
		return http.StatusNotFound, "batch not found"
	case errors.Is(err, domain.ErrBindingUnavailable):
		return http.StatusServiceUnavailable, "contract binding not initialized"
	case errors.Is(err, domain.ErrNoActiveAccount):
		return http.StatusServiceUnavailable, "no active account"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "wallet provider unavailable"
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, "viewing batch details is not implemented yet"
	case errors.Is(err, domain.ErrLocationDenied):
		return http.StatusForbidden, "location access denied"
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusBadGateway, "unable to retrieve location"
	case errors.Is(err, domain.ErrRemoteCallFailed):
		return http.StatusBadGateway, "operation failed"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
