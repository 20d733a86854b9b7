package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/forms"
)

type SettingsHandler struct {
	presenter *forms.Presenter
	queue     Serializer
}

func NewSettingsHandler(presenter *forms.Presenter, queue Serializer) *SettingsHandler {
	return &SettingsHandler{presenter: presenter, queue: queue}
}

// Update applies either settings tab. A body with "password" changes the
// password; anything else updates the profile.
//
// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      forms.SettingsForm  true  "Profile or password fields"
// @Success      200   {object}  forms.FormState
// @Failure      400   {object}  forms.FormState
// @Failure      422   {object}  forms.FormState
// @Router       /settings [post]
func (h *SettingsHandler) Update(c echo.Context) error {
	var form forms.SettingsForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	return serialize(c, h.queue, "settings", func(ctx context.Context) forms.FormState {
		return h.presenter.SubmitSettings(ctx, form)
	})
}
