package forms

import "github.com/digitallog/console/internal/core/domain"

// LoginForm is the login page input.
type LoginForm struct {
	Email    string `json:"email"    validate:"required,max=50,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

func (LoginForm) messages() messageSet { return credentialMessages }

func (f LoginForm) credentials() domain.Credentials {
	return domain.Credentials{Email: f.Email, Password: f.Password}
}

// SignupForm is the signup page input. An empty Role means "user".
type SignupForm struct {
	Email    string      `json:"email"    validate:"required,max=50,email"`
	Password string      `json:"password" validate:"required,min=8,max=100"`
	Role     domain.Role `json:"role"     validate:"required,oneof=admin user"`
}

func (SignupForm) messages() messageSet { return credentialMessages }

func (f SignupForm) registration() domain.Registration {
	return domain.Registration{Email: f.Email, Password: f.Password, Role: f.Role}
}

var credentialMessages = messageSet{
	"email.required":    "Email requerido",
	"email.max":         "El email debe tener menos de 50 caracteres",
	"email.email":       "Email invalido",
	"password.required": "Contraseña requerida",
	"password.min":      "La contraseña debe tener al menos 8 caracteres",
	"password.max":      "La contraseña debe tener menos de 100 caracteres",
}

// ProfileForm is the profile tab of the settings dialog. Every field is
// optional; empty ones are not sent.
type ProfileForm struct {
	FirstName string `json:"firstName,omitempty" validate:"omitempty,max=20"`
	LastName  string `json:"lastName,omitempty"  validate:"omitempty,max=20"`
	Email     string `json:"email,omitempty"     validate:"omitempty,max=50,email"`
	Username  string `json:"username,omitempty"  validate:"omitempty,max=20"`
}

func (ProfileForm) messages() messageSet {
	return messageSet{
		"firstName.max": "El nombre debe tener menos de 20 caracteres",
		"lastName.max":  "El apellido debe tener menos de 20 caracteres",
		"email.max":     "El email debe tener menos de 50 caracteres",
		"email.email":   "Email invalido",
		"username.max":  "El nombre de usuario debe tener menos de 20 caracteres",
	}
}

func (f ProfileForm) update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Username:  f.Username,
	}
}

// PasswordForm is the password tab of the settings dialog.
type PasswordForm struct {
	Password        string `json:"password"         validate:"min=8,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

func (PasswordForm) messages() messageSet {
	return messageSet{
		"password.min":             "La contraseña debe tener al menos 8 caracteres",
		"password.max":             "La contraseña debe tener menos de 100 caracteres",
		"confirm_password.eqfield": "La contraseña no coincide",
	}
}

func (f PasswordForm) update() domain.PasswordUpdate {
	return domain.PasswordUpdate{Password: f.Password, ConfirmPassword: f.ConfirmPassword}
}

// SettingsForm is the body of POST /settings: either tab's fields. A
// body carrying "password" is a password change.
type SettingsForm struct {
	ProfileForm
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

// IsPassword reports whether the body belongs to the password tab.
func (f SettingsForm) IsPassword() bool {
	return f.Password != "" || f.ConfirmPassword != ""
}

func (f SettingsForm) PasswordForm() PasswordForm {
	return PasswordForm{Password: f.Password, ConfirmPassword: f.ConfirmPassword}
}
