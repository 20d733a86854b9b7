package domain

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
)

// Static route table of the application.
const (
	RouteLanding        = "/"
	RouteLogin          = "/login"
	RouteSignup         = "/signup"
	RouteRefreshToken   = "/refresh-token"
	RouteSettings       = "/settings"
	RouteBlogs          = "/blogs"
	RouteAdmin          = "/admin"
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminBlogs     = "/admin/blogs"
	RouteAdminComments  = "/admin/comments"
	RouteAdminUsers     = "/admin/users"
)

// Redirect tells the caller where to go after an action. Reload asks for
// a full reset of in-memory state instead of a plain navigation.
type Redirect struct {
	To     string `json:"to"`
	Reload bool   `json:"reload,omitempty"`
}

// RefreshRedirect builds the refresh route URL that returns to target.
func RefreshRedirect(target string) string {
	if target == "" || target == RouteLanding {
		return RouteRefreshToken
	}
	return RouteRefreshToken + "?redirect=" + url.QueryEscape(target)
}

// SafeRedirectTarget keeps only same-origin absolute paths; anything else
// becomes the landing route. Backslashes count as slashes, since browsers
// read "/\\host" as "//host".
func SafeRedirectTarget(target string) string {
	if target == "" || target[0] != '/' {
		return RouteLanding
	}
	if strings.IndexFunc(target, unicode.IsControl) >= 0 {
		return RouteLanding
	}
	u, err := url.Parse(strings.ReplaceAll(target, "\\", "/"))
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "//") {
		return RouteLanding
	}
	return target
}

// FatalError is raised by navigation-time flows (token refresh) that
// cannot recover without user action. It is rendered as an error page.
type FatalError struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Message    string `json:"message"`
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.StatusText, e.Message)
}

// NewFatalError fills in status defaults (500 Internal Server Error).
func NewFatalError(status int, statusText, message string) *FatalError {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &FatalError{Status: status, StatusText: statusText, Message: message}
}

// APIError is a non-OK reply from the remote API.
type APIError struct {
	Status     int
	StatusText string
	// Message is the top-level "message" field of the body, if any.
	Message string
	Payload ErrorPayload
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.StatusText)
}
