package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/forms"
)

// Refresher runs the refresh-token loader.
type Refresher interface {
	Refresh(ctx context.Context, redirect string) (domain.Redirect, error)
}

// LogoutRunner runs the logout flow.
type LogoutRunner interface {
	Logout(ctx context.Context, currentPath string) domain.Redirect
}

type AuthHandler struct {
	presenter *forms.Presenter
	refresher Refresher
	logout    LogoutRunner
	queue     Serializer
}

func NewAuthHandler(presenter *forms.Presenter, refresher Refresher, logout LogoutRunner, queue Serializer) *AuthHandler {
	return &AuthHandler{presenter: presenter, refresher: refresher, logout: logout, queue: queue}
}

// Login signs in with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forms.LoginForm  true  "Login credentials"
// @Success      200   {object}  forms.FormState
// @Failure      400   {object}  forms.FormState
// @Failure      422   {object}  forms.FormState
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var form forms.LoginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	return serialize(c, h.queue, "login", func(ctx context.Context) forms.FormState {
		return h.presenter.SubmitLogin(ctx, form)
	})
}

// Signup creates an account and signs in.
//
// @Summary      Signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forms.SignupForm  true  "Account details"
// @Success      200   {object}  forms.FormState
// @Failure      400   {object}  forms.FormState
// @Failure      422   {object}  forms.FormState
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var form forms.SignupForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	return serialize(c, h.queue, "signup", func(ctx context.Context) forms.FormState {
		return h.presenter.SubmitSignup(ctx, form)
	})
}

// RefreshToken exchanges the refresh cookie for a new access token and
// redirects to ?redirect=, or to the login page when the refresh cookie
// expired.
//
// @Summary      Refresh access token
// @Tags         auth
// @Param        redirect  query  string  false  "Where to go afterwards"
// @Success      302
// @Failure      401  {object}  domain.FatalError
// @Failure      500  {object}  domain.FatalError
// @Router       /refresh-token [get]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var (
		redirect domain.Redirect
		err      error
	)
	if qerr := h.queue.Do(c.Request().Context(), "refresh", func(ctx context.Context) {
		redirect, err = h.refresher.Refresh(ctx, c.QueryParam("redirect"))
	}); qerr != nil {
		return qerr
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, redirect.To)
}

type logoutRequest struct {
	CurrentPath string `json:"currentPath"`
}

// Logout ends the session locally and, best effort, on the server.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        from  query     string  false  "Path the user is on"
// @Success      200   {object}  domain.Redirect
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	if req.CurrentPath == "" {
		req.CurrentPath = c.QueryParam("from")
	}
	var redirect domain.Redirect
	if err := h.queue.Do(c.Request().Context(), "logout", func(ctx context.Context) {
		redirect = h.logout.Logout(ctx, req.CurrentPath)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirect)
}
