package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/forms"
)

// Serializer runs session-mutating actions one at a time.
type Serializer interface {
	Do(ctx context.Context, name string, fn func(context.Context)) error
}

// stateStatus maps a form outcome to an HTTP status: field errors are
// 422, any other failure 400.
func stateStatus(state forms.FormState) int {
	switch {
	case len(state.FieldErrors) > 0:
		return http.StatusUnprocessableEntity
	case state.Failed():
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

// bindForm decodes the request body into dst.
func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

// serialize runs fn through s and replies with its FormState.
func serialize(c echo.Context, s Serializer, name string, fn func(context.Context) forms.FormState) error {
	var state forms.FormState
	if err := s.Do(c.Request().Context(), name, func(ctx context.Context) {
		state = fn(ctx)
	}); err != nil {
		return err
	}
	return c.JSON(stateStatus(state), state)
}
