// Package forms turns user input into auth and settings actions and
// turns their results into what a page shows: field errors, a notice or
// a navigation.
package forms

import (
	"context"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/messages"
)

// Authenticator runs the login and signup actions.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) domain.ActionResult[domain.AuthResponse]
	Signup(ctx context.Context, reg domain.Registration) domain.ActionResult[domain.AuthResponse]
}

// SettingsUpdater runs the settings actions.
type SettingsUpdater interface {
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (domain.ActionResult[domain.User], *domain.Redirect)
	UpdatePassword(ctx context.Context, upd domain.PasswordUpdate) (domain.ActionResult[domain.User], *domain.Redirect)
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"

	PositionTopCenter = "top-center"
)

const (
	profileUpdatedMessage  = "Perfil actualizado correctamente"
	passwordUpdatedMessage = "Contraseña actualizada correctamente"
)

// Notice is a transient toast.
type Notice struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// FormState is what a form shows after a submit.
type FormState struct {
	FieldErrors FieldErrors      `json:"fieldErrors,omitempty"`
	Notice      *Notice          `json:"notice,omitempty"`
	Redirect    *domain.Redirect `json:"redirect,omitempty"`
	User        *domain.User     `json:"user,omitempty"`
}

// Failed reports whether the submit ended in an error of any kind.
func (s FormState) Failed() bool {
	return len(s.FieldErrors) > 0 || (s.Notice != nil && s.Notice.Kind == NoticeError)
}

// Presenter wires the forms to their actions.
type Presenter struct {
	validator *Validator
	loc       *messages.Localizer
	auth      Authenticator
	settings  SettingsUpdater
}

func NewPresenter(v *Validator, loc *messages.Localizer, auth Authenticator, settings SettingsUpdater) *Presenter {
	return &Presenter{validator: v, loc: loc, auth: auth, settings: settings}
}

// SubmitLogin validates f and, when valid, logs in. Success navigates to
// the landing route.
func (p *Presenter) SubmitLogin(ctx context.Context, f LoginForm) FormState {
	if errs := p.validator.Check(f); errs != nil {
		return FormState{FieldErrors: errs}
	}
	res := p.auth.Login(ctx, f.credentials())
	if !res.OK() {
		return p.failure(res.Err())
	}
	data, _ := res.Data()
	return FormState{Redirect: &domain.Redirect{To: domain.RouteLanding}, User: &data.User}
}

// SubmitSignup is SubmitLogin for new accounts. An empty role signs up a
// regular user.
func (p *Presenter) SubmitSignup(ctx context.Context, f SignupForm) FormState {
	if f.Role == "" {
		f.Role = domain.RoleUser
	}
	if errs := p.validator.Check(f); errs != nil {
		return FormState{FieldErrors: errs}
	}
	res := p.auth.Signup(ctx, f.registration())
	if !res.OK() {
		return p.failure(res.Err())
	}
	data, _ := res.Data()
	return FormState{Redirect: &domain.Redirect{To: domain.RouteLanding}, User: &data.User}
}

func (p *Presenter) SubmitProfile(ctx context.Context, f ProfileForm) FormState {
	if errs := p.validator.Check(f); errs != nil {
		return FormState{FieldErrors: errs}
	}
	res, redirect := p.settings.UpdateProfile(ctx, f.update())
	return p.settingsState(res, redirect, profileUpdatedMessage)
}

// SubmitPassword checks the confirmation locally; a mismatch never
// reaches the network.
func (p *Presenter) SubmitPassword(ctx context.Context, f PasswordForm) FormState {
	if errs := p.validator.Check(f); errs != nil {
		return FormState{FieldErrors: errs}
	}
	res, redirect := p.settings.UpdatePassword(ctx, f.update())
	return p.settingsState(res, redirect, passwordUpdatedMessage)
}

// SubmitSettings dispatches a POST /settings body to the right tab.
func (p *Presenter) SubmitSettings(ctx context.Context, f SettingsForm) FormState {
	if f.IsPassword() {
		return p.SubmitPassword(ctx, f.PasswordForm())
	}
	return p.SubmitProfile(ctx, f.ProfileForm)
}

func (p *Presenter) settingsState(res domain.ActionResult[domain.User], redirect *domain.Redirect, okMessage string) FormState {
	if redirect != nil {
		return FormState{Redirect: redirect}
	}
	if !res.OK() {
		return p.failure(res.Err())
	}
	user, _ := res.Data()
	return FormState{
		Notice: &Notice{Kind: NoticeSuccess, Message: okMessage},
		User:   &user,
	}
}

// failure renders an action error: field messages for validation
// failures, a toast for everything else.
func (p *Presenter) failure(payload domain.ErrorPayload) FormState {
	return domain.MatchError(payload,
		func(e *domain.ValidationError) FormState {
			errs := make(FieldErrors, len(e.Errors))
			for key, v := range e.Errors {
				path := v.Path
				if path == "" {
					path = key
				}
				errs[path] = p.loc.T(v.Msg)
			}
			return FormState{FieldErrors: errs}
		},
		func(e *domain.AuthorizationError) FormState {
			return FormState{Notice: &Notice{
				Kind:     NoticeError,
				Message:  p.loc.T(e.Message),
				Position: PositionTopCenter,
			}}
		},
		func(e *domain.ServerError) FormState {
			return FormState{Notice: &Notice{Kind: NoticeError, Message: e.Message}}
		},
	)
}
