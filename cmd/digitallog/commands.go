package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/digitallog/console/internal/app"
	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/forms"
	"github.com/digitallog/console/internal/infrastructure/config"
)

type command struct {
	flags *pflag.FlagSet
	// validate rejects flag values before any config is loaded.
	validate func() error
	// configure adjusts the loaded config before the app is built.
	configure func(*config.Config)
	run       func(ctx context.Context, a *app.App) int
}

var commands = map[string]func(*cli) *command{
	"login":             (*cli).loginCmd,
	"signup":            (*cli).signupCmd,
	"refresh":           (*cli).refreshCmd,
	"logout":            (*cli).logoutCmd,
	"settings profile":  (*cli).profileCmd,
	"settings password": (*cli).passwordCmd,
	"whoami":            (*cli).whoamiCmd,
	"serve":             (*cli).serveCmd,
}

func (c *cli) loginCmd() *command {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	var form forms.LoginForm
	fs.StringVarP(&form.Email, "email", "e", "", "account email")
	fs.StringVarP(&form.Password, "password", "p", "", "password (read from stdin when omitted)")

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		if form.Password == "" {
			form.Password = c.readLine()
		}
		return c.printState(a.Presenter.SubmitLogin(ctx, form))
	}}
}

func (c *cli) signupCmd() *command {
	fs := pflag.NewFlagSet("signup", pflag.ContinueOnError)
	var form forms.SignupForm
	fs.StringVarP(&form.Email, "email", "e", "", "account email")
	fs.StringVarP(&form.Password, "password", "p", "", "password (read from stdin when omitted)")
	role := fs.String("role", string(domain.RoleUser), "account role: user or admin")

	validate := func() error {
		if !domain.Role(*role).Valid() {
			return fmt.Errorf("invalid role %q: want %s or %s", *role, domain.RoleUser, domain.RoleAdmin)
		}
		return nil
	}
	return &command{flags: fs, validate: validate, run: func(ctx context.Context, a *app.App) int {
		form.Role = domain.Role(*role)
		if form.Password == "" {
			form.Password = c.readLine()
		}
		return c.printState(a.Presenter.SubmitSignup(ctx, form))
	}}
}

func (c *cli) refreshCmd() *command {
	fs := pflag.NewFlagSet("refresh", pflag.ContinueOnError)
	redirect := fs.String("redirect", "", "page to return to after the refresh")

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		to, err := a.Refresh.Refresh(ctx, *redirect)
		if err != nil {
			c.printError(err)
			return exitFail
		}
		if to.To == domain.RouteLogin {
			fmt.Fprintln(c.stderr, "session expired, log in again")
			return exitFail
		}
		fmt.Fprintln(c.stdout, "token refreshed")
		fmt.Fprintln(c.stdout, "redirect:", to.To)
		return exitOK
	}}
}

func (c *cli) logoutCmd() *command {
	fs := pflag.NewFlagSet("logout", pflag.ContinueOnError)
	from := fs.String("from", domain.RouteLanding, "page the logout is triggered from")

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		to := a.Logout.Logout(ctx, *from)
		fmt.Fprintln(c.stdout, "signed out")
		fmt.Fprintln(c.stdout, "redirect:", to.To)
		return exitOK
	}}
}

func (c *cli) profileCmd() *command {
	fs := pflag.NewFlagSet("settings profile", pflag.ContinueOnError)
	var form forms.ProfileForm
	fs.StringVar(&form.FirstName, "first-name", "", "first name")
	fs.StringVar(&form.LastName, "last-name", "", "last name")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Username, "username", "", "username")

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		return c.submitSettings(ctx, a, func(ctx context.Context) forms.FormState {
			return a.Presenter.SubmitProfile(ctx, form)
		})
	}}
}

func (c *cli) passwordCmd() *command {
	fs := pflag.NewFlagSet("settings password", pflag.ContinueOnError)
	var form forms.PasswordForm
	fs.StringVarP(&form.Password, "password", "p", "", "new password (read from stdin when omitted)")
	fs.StringVar(&form.ConfirmPassword, "confirm-password", "", "new password again (read from stdin when omitted)")

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		if form.Password == "" {
			form.Password = c.readLine()
		}
		if form.ConfirmPassword == "" {
			form.ConfirmPassword = c.readLine()
		}
		return c.submitSettings(ctx, a, func(ctx context.Context) forms.FormState {
			return a.Presenter.SubmitPassword(ctx, form)
		})
	}}
}

// submitSettings runs a settings action the way the guarded settings
// page does: an expiring token goes through the refresh flow first.
func (c *cli) submitSettings(ctx context.Context, a *app.App, submit func(context.Context) forms.FormState) int {
	session, err := a.Store.Read(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		c.printError(err)
		return exitFail
	}
	if session != nil && session.AccessToken != "" && a.Refresh.NeedsRefresh(session) {
		to, err := a.Refresh.Refresh(ctx, domain.RouteSettings)
		if err != nil {
			c.printError(err)
			return exitFail
		}
		if to.To == domain.RouteLogin {
			fmt.Fprintln(c.stderr, "session expired, log in again")
			return exitFail
		}
	}

	state := submit(ctx)
	if state.Redirect != nil && state.User == nil {
		fmt.Fprintln(c.stderr, "not signed in")
		return exitFail
	}
	return c.printState(state)
}

func (c *cli) whoamiCmd() *command {
	fs := pflag.NewFlagSet("whoami", pflag.ContinueOnError)

	return &command{flags: fs, run: func(ctx context.Context, a *app.App) int {
		session, err := a.Store.Read(ctx)
		if err != nil && !errors.Is(err, domain.ErrNoSession) {
			c.printError(err)
			return exitFail
		}
		menu := forms.UserMenu(session)
		if menu == nil {
			fmt.Fprintln(c.stderr, "not signed in")
			return exitFail
		}
		fmt.Fprintf(c.stdout, "%s <%s> (%s)\n", session.User.DisplayName(), menu.Email, session.User.Role)
		fmt.Fprintln(c.stdout, "avatar:", menu.AvatarURL)
		if a.Refresh.NeedsRefresh(session) {
			fmt.Fprintln(c.stdout, "access token: expired, run `digitallog refresh`")
		}
		for _, item := range menu.Items {
			fmt.Fprintf(c.stdout, "  %-14s %s\n", item.Label, item.Href)
		}
		return exitOK
	}}
}

func (c *cli) serveCmd() *command {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides LISTEN_ADDR)")
	ephemeral := fs.Bool("ephemeral", false, "keep the session in memory only")

	return &command{
		flags: fs,
		configure: func(cfg *config.Config) {
			if *addr != "" {
				cfg.ListenAddr = *addr
			}
			if *ephemeral {
				cfg.Session.Backend = config.BackendMemory
			}
		},
		run: func(ctx context.Context, a *app.App) int {
			if err := a.Serve(ctx); err != nil {
				c.printError(err)
				return exitFail
			}
			return exitOK
		},
	}
}

func (c *cli) printState(state forms.FormState) int {
	for _, field := range slices.Sorted(maps.Keys(state.FieldErrors)) {
		fmt.Fprintf(c.stderr, "%s: %s\n", field, state.FieldErrors[field])
	}
	if state.Notice != nil {
		w := c.stdout
		if state.Notice.Kind == forms.NoticeError {
			w = c.stderr
		}
		fmt.Fprintf(w, "%s: %s\n", state.Notice.Kind, state.Notice.Message)
	}
	if state.Redirect != nil {
		fmt.Fprintln(c.stdout, "redirect:", state.Redirect.To)
	}
	if state.Failed() {
		return exitFail
	}
	return exitOK
}

func (c *cli) printError(err error) {
	var fatal *domain.FatalError
	if errors.As(err, &fatal) {
		fmt.Fprintf(c.stderr, "error: %d %s: %s\n", fatal.Status, fatal.StatusText, fatal.Message)
		return
	}
	fmt.Fprintln(c.stderr, "error:", err)
}

// readLine reads one line from stdin, without its line ending.
func (c *cli) readLine() string {
	if c.lines == nil {
		c.lines = bufio.NewScanner(c.stdin)
	}
	if !c.lines.Scan() {
		return ""
	}
	return strings.TrimRight(c.lines.Text(), "\r")
}
