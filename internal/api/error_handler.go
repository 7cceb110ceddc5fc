package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// set for identity provider failures.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var authStatus = map[string]int{
	domain.CodeInvalidEmail:        http.StatusBadRequest,
	domain.CodeWeakPassword:        http.StatusBadRequest,
	domain.CodeEmailAlreadyInUse:   http.StatusConflict,
	domain.CodeUserNotFound:        http.StatusNotFound,
	domain.CodeWrongPassword:       http.StatusUnauthorized,
	domain.CodeInvalidCredential:   http.StatusUnauthorized,
	domain.CodeRequiresRecentLogin: http.StatusForbidden,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"[, "code": "<code>"]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ae *domain.AuthError
	if errors.As(err, &ae) {
		status, ok := authStatus[ae.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		return status, errorResponse{Error: ae.Message, Code: ae.Code}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Message}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, errorResponse{Error: "document not found"}
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, errorResponse{Error: "identity not found"}
	case errors.Is(err, domain.ErrInvalidCollection):
		return http.StatusBadRequest, errorResponse{Error: "invalid collection name"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "unauthenticated"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
