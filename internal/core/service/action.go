package service

import (
	"errors"

	"github.com/digitallog/console/internal/core/domain"
)

// Action names used for logging and metrics.
const (
	actionLogin            = "login"
	actionSignup           = "signup"
	actionLogout           = "logout"
	actionSettingsProfile  = "settings_profile"
	actionSettingsPassword = "settings_password"
)

// payloadFromError converts anything a gateway call returned into an
// ErrorPayload: the decoded body of a non-OK reply, or a ServerError
// carrying the transport failure message.
func payloadFromError(err error) domain.ErrorPayload {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Payload != nil {
		return apiErr.Payload
	}
	msg := err.Error()
	if msg == "" {
		msg = domain.DefaultServerMessage
	}
	return &domain.ServerError{Message: msg}
}

func outcomeOf[T any](r domain.ActionResult[T]) string {
	if r.OK() {
		return "ok"
	}
	return r.Err().Code()
}
