package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/api/middleware"
	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/forms"
)

type PageHandler struct {
	store ports.SessionStore
}

func NewPageHandler(store ports.SessionStore) *PageHandler {
	return &PageHandler{store: store}
}

type pageResponse struct {
	Path   string       `json:"path"`
	Params []string     `json:"params,omitempty"`
	User   *domain.User `json:"user,omitempty"`
	Menu   *forms.Menu  `json:"menu,omitempty"`
}

// Page renders a protected page shell: the matched route and the
// signed-in user.
func (h *PageHandler) Page(c echo.Context) error {
	session := middleware.SessionFrom(c)
	resp := pageResponse{Path: c.Request().URL.Path, Params: c.ParamValues(), Menu: forms.UserMenu(session)}
	if session != nil {
		resp.User = session.User
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the user menu, or 204 when nobody is signed in.
//
// @Summary      Current user menu
// @Tags         session
// @Produce      json
// @Success      200  {object}  forms.Menu
// @Success      204
// @Router       /me [get]
func (h *PageHandler) Me(c echo.Context) error {
	session, err := h.store.Read(c.Request().Context())
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		return err
	}
	menu := forms.UserMenu(session)
	if menu == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, menu)
}
