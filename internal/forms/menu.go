package forms

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/digitallog/console/internal/core/domain"
)

// MenuItem is one entry of the user menu. Method is set for entries that
// submit instead of navigate.
type MenuItem struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Menu is the account dropdown shown in the page header.
type Menu struct {
	AvatarURL string     `json:"avatarUrl"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Items     []MenuItem `json:"items"`
}

const avatarSize = 32

// UserMenu builds the menu for the cached user, or nil when nobody is
// signed in. The dashboard entry is only offered to admins.
func UserMenu(session *domain.Session) *Menu {
	if session == nil || session.User == nil {
		return nil
	}
	u := session.User

	items := make([]MenuItem, 0, 3)
	if u.IsAdmin() {
		items = append(items, MenuItem{Label: "Panel", Href: domain.RouteAdminDashboard})
	}
	items = append(items,
		MenuItem{Label: "Ajustes", Href: domain.RouteSettings},
		MenuItem{Label: "Cerrar sesión", Href: "/logout", Method: "POST"},
	)

	return &Menu{
		AvatarURL: GravatarURL(u.Email, avatarSize),
		Username:  u.Username,
		Email:     u.Email,
		Items:     items,
	}
}

// GravatarURL returns the avatar image for email, with an identicon when
// no avatar is registered.
func GravatarURL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=identicon", hex.EncodeToString(sum[:]), size)
}
