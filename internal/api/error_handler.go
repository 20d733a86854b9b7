package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/infrastructure/queue"
)

// errorResponse is the canonical error envelope for non-page errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders a refresh failure as the error page body
//     {"message","status","statusText"} with the carried status.
//   - Maps echo's own errors to their status.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var fatal *domain.FatalError
		if errors.As(err, &fatal) {
			_ = c.JSON(fatal.Status, fatal)
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, queue.ErrStopped):
		return http.StatusServiceUnavailable, "server is shutting down"
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, "no session"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
