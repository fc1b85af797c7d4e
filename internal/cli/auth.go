// internal/cli/auth.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"taskdesk/internal/domain/auth"
	"taskdesk/internal/middleware"
	"taskdesk/internal/pkg/apiclient"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			c, err := openContainer(cmd, opts, middleware.GuardGuest)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Auth.Login(cmd.Context(), &auth.LoginCredentials{Username: username, Password: password})
			if err != nil {
				var apiErr *apiclient.APIError
				if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
					return errors.New(apiErr.UserMessage())
				}
				return userError(err)
			}
			if err := c.Auth.StartSession(cmd.Context(), res); err != nil {
				return err
			}

			p := printer{w: cmd.OutOrStdout(), format: opts.output}
			return p.message(fmt.Sprintf("signed in as %s", res.User.DisplayName()), map[string]interface{}{
				"user": res.User,
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var data auth.RegisterData

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRegister(&data); err != nil {
				return err
			}

			c, err := openContainer(cmd, opts, middleware.GuardGuest)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Auth.Register(cmd.Context(), &data)
			if err != nil {
				return userError(err)
			}

			p := printer{w: cmd.OutOrStdout(), format: opts.output}
			return p.message(res.Message+`; run "taskdesk login" to continue`, nil)
		},
	}

	cmd.Flags().StringVar(&data.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&data.Username, "username", "", "Username (at least 3 characters)")
	cmd.Flags().StringVar(&data.Password, "password", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&data.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&data.LastName, "last-name", "", "Last name")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd, opts, middleware.GuardAuth)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return printer{w: cmd.OutOrStdout(), format: opts.output}.message("signed out", nil)
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd, opts, middleware.GuardAuth)
			if err != nil {
				return err
			}
			defer c.Close()

			u, err := c.Auth.CurrentUser()
			if err != nil {
				return err
			}

			p := printer{w: cmd.OutOrStdout(), format: opts.output}
			return p.print(u, []string{"ID", "USERNAME", "EMAIL", "NAME"}, [][]string{
				{u.ID, u.Username, u.Email, u.DisplayName()},
			})
		},
	}
}

// validateRegister applies the form rules before anything is sent.
func validateRegister(d *auth.RegisterData) error {
	var problems []string
	if !strings.Contains(d.Email, "@") {
		problems = append(problems, "a valid --email is required")
	}
	if len(d.Username) < 3 {
		problems = append(problems, "--username must be at least 3 characters")
	}
	if len(d.Password) < 6 {
		problems = append(problems, "--password must be at least 6 characters")
	}
	if len(d.FirstName) < 2 {
		problems = append(problems, "--first-name must be at least 2 characters")
	}
	if len(d.LastName) < 2 {
		problems = append(problems, "--last-name must be at least 2 characters")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, ", "))
	}
	return nil
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
