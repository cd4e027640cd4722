package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/api/handler"
	"github.com/farmlink/marketplace-api/internal/core/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order. More specific sentinels come first.
var errorMappings = []errorMapping{
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{domain.ErrExpiredCredential, http.StatusUnauthorized, "expired_credential"},
	{domain.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credential"},
	{domain.ErrInvalidLogin, http.StatusUnauthorized, "invalid_login"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAccountExists, http.StatusConflict, "account_exists"},
	{domain.ErrDuplicateRating, http.StatusConflict, "duplicate_rating"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrIllegalTransition, http.StatusUnprocessableEntity, "illegal_transition"},
	{domain.ErrInvalidTarget, http.StatusUnprocessableEntity, "invalid_target"},
	{domain.ErrValidation, http.StatusBadRequest, "validation_failed"},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				log.Warn().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("dependency unavailable")
				return m.status, handler.ErrorResponse{Error: "service temporarily unavailable", Code: m.code}
			}
			return m.status, handler.ErrorResponse{Error: err.Error(), Code: m.code}
		}
	}

	// Echo's own errors (router 404/405, rate limiter 429, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error", Code: "internal"}
}

func httpCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		return "http_error"
	}
}
