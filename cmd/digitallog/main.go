// Command digitallog manages a DigitalLog session from the terminal and
// can serve the session routes locally.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/digitallog/console/internal/app"
	"github.com/digitallog/console/internal/infrastructure/config"
	"github.com/digitallog/console/pkg/logger"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `usage: digitallog <command> [flags]

commands:
  login              sign in with email and password
  signup             create an account and sign in
  refresh            mint a new access token from the refresh cookie
  logout             end the session
  settings profile   update profile fields
  settings password  change the password
  whoami             show the signed-in user
  serve              run the local route server
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newCLI(os.Stdin, os.Stdout, os.Stderr).run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lines  *bufio.Scanner

	// loadConfig and newApp are replaced in tests.
	loadConfig func(ctx context.Context) (*config.Config, error)
	newApp     func(ctx context.Context, cfg *config.Config) (*app.App, error)
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, loadConfig: config.Load}
	c.newApp = func(ctx context.Context, cfg *config.Config) (*app.App, error) {
		log := logger.New(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.LogPretty,
			Output:  stderr,
			Service: "digitallog",
		})
		return app.New(ctx, cfg, log)
	}
	return c
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return exitUsage
	}

	name, rest := args[0], args[1:]
	if name == "settings" {
		if len(rest) == 0 {
			fmt.Fprint(c.stderr, usage)
			return exitUsage
		}
		name, rest = "settings "+rest[0], rest[1:]
	}

	cmd, ok := commands[name]
	if !ok {
		if name == "help" || name == "-h" || name == "--help" {
			fmt.Fprint(c.stdout, usage)
			return exitOK
		}
		fmt.Fprintf(c.stderr, "unknown command %q\n\n%s", name, usage)
		return exitUsage
	}

	command := cmd(c)
	command.flags.SetOutput(c.stderr)
	if err := command.flags.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if command.flags.NArg() > 0 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %v\n", command.flags.Args())
		return exitUsage
	}
	if command.validate != nil {
		if err := command.validate(); err != nil {
			fmt.Fprintln(c.stderr, "error:", err)
			return exitUsage
		}
	}

	cfg, err := c.loadConfig(ctx)
	if err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		return exitFail
	}
	if command.configure != nil {
		command.configure(cfg)
	}

	a, err := c.newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		return exitFail
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			fmt.Fprintln(c.stderr, "warning: close:", err)
		}
	}()

	return command.run(ctx, a)
}
