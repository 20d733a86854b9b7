package domain

import "strings"

// Role is the account role issued by the remote API.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the roles the API accepts.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the cached profile snapshot of the authenticated account.
type User struct {
	ID        string `json:"id"                  bson:"id"`
	Email     string `json:"email"               bson:"email"`
	Username  string `json:"username"            bson:"username"`
	Role      Role   `json:"role"                bson:"role"`
	FirstName string `json:"firstName,omitempty" bson:"first_name,omitempty"`
	LastName  string `json:"lastName,omitempty"  bson:"last_name,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns "First Last" when known, otherwise the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup request body.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// AuthResponse is the success body of login and register.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// ProfileUpdate carries the profile fields to change. Empty fields are
// left out of the request body.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
}

// PasswordUpdate carries a new password and its confirmation.
type PasswordUpdate struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse is the success body of PUT /users/current.
type UserResponse struct {
	User User `json:"user"`
}
