// internal/cli/session.go
package cli

import (
	"errors"
	"fmt"
	"io"

	"taskdesk/internal/app"
	"taskdesk/internal/config"
	"taskdesk/internal/middleware"
	"taskdesk/internal/pkg/apiclient"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/navigation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// terminalNavigator tells the user where the console would have sent them.
type terminalNavigator struct {
	w io.Writer
}

func (n terminalNavigator) Navigate(route navigation.Route) {
	if route == navigation.RouteLogin {
		fmt.Fprintln(n.w, `session expired: run "taskdesk login"`)
		return
	}
	fmt.Fprintf(n.w, "continue at %s\n", route)
}

func loadConfig(opts *rootOptions) (config.AppConfig, error) {
	if opts.configFile != "" {
		return config.LoadFile(opts.configFile)
	}
	return config.Load()
}

func newLogger(opts *rootOptions) *zap.Logger {
	if !opts.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openContainer builds the pipeline for one command and checks the guard
// the command runs behind.
func openContainer(cmd *cobra.Command, opts *rootOptions, kind middleware.GuardKind) (*app.Container, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	// only a signed-in command can have its session expire under it
	var nav navigation.Navigator = navigation.NavigatorFunc(func(navigation.Route) {})
	if kind == middleware.GuardAuth {
		nav = terminalNavigator{w: cmd.ErrOrStderr()}
	}

	c, err := app.NewContainer(cmd.Context(), cfg, newLogger(opts), nav)
	if err != nil {
		return nil, err
	}

	snap := c.Session.Snapshot()
	if ok, to := middleware.Decide(kind, snap); !ok {
		_ = c.Close()
		if to == navigation.RouteLogin {
			return nil, fmt.Errorf(`%w: run "taskdesk login"`, xerrors.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf(`%w as %s: run "taskdesk logout" first`, xerrors.ErrAlreadyAuthenticated, snap.User.DisplayName())
	}
	return c, nil
}

// userError trims service errors down to what the user should read.
func userError(err error) error {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return nil
	case xerrors.Is(err, xerrors.ErrSessionExpired):
		return xerrors.ErrSessionExpired
	case errors.As(err, &apiErr):
		return errors.New(apiErr.UserMessage())
	case xerrors.Is(err, xerrors.ErrInvalidServerResponse):
		return xerrors.ErrInvalidServerResponse
	}
	return err
}
