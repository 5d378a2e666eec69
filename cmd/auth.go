package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/taskflow-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and manage the stored session",
	}

	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthRegisterCmd(app),
		newAuthRefreshCmd(app),
		newAuthLogoutCmd(app),
		newAuthWhoamiCmd(app),
	)

	return cmd
}

type credentialFlags struct {
	email         string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "Account email")
	cmd.Flags().StringVar(&f.password, "password", "", "Account password")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) resolvePassword(in io.Reader) (string, error) {
	if !f.passwordStdin {
		if f.password == "" {
			return "", errors.New("one of --password or --password-stdin is required")
		}
		return f.password, nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password from stdin is empty")
	}
	return password, nil
}

func newAuthLoginCmd(app *app) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with email and password",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSessionOptional: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := creds.resolvePassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			var session domain.Session
			fetch := func(ctx context.Context) error {
				var loginErr error
				session, loginErr = app.auth.Login(ctx, domain.LoginRequest{Email: creds.email, Password: password})
				return loginErr
			}
			if err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), "Signing in...", fetch); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", userLabel(session.User))
			return err
		},
	}

	creds.register(cmd)

	return cmd
}

func newAuthRegisterCmd(app *app) *cobra.Command {
	var creds credentialFlags
	var name string
	var role string

	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create an account and sign in",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSessionOptional: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := creds.resolvePassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			parsedRole, err := parseRole(role)
			if err != nil {
				return err
			}

			session, err := app.auth.Register(cmd.Context(), domain.RegisterRequest{
				Email:    creds.email,
				Password: password,
				Name:     name,
				Role:     parsedRole,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", userLabel(session.User))
			return err
		},
	}

	creds.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "", "Role (admin|manager|member, default: server default)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAuthRefreshCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.auth.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Session refreshed for %s\n", userLabel(session.User))
			return err
		},
	}
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Sign out and remove the stored session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSessionOptional: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Logout(cmd.Context()); err != nil {
				if errors.Is(err, domain.ErrNotLoggedIn) {
					return err
				}
				return fmt.Errorf("local session cleared, but: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return err
		},
	}
}

type whoamiView struct {
	User      domain.User `json:"user" yaml:"user"`
	UpdatedAt time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

func newAuthWhoamiCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			session := app.auth.Current()
			if !session.Authenticated() {
				return domain.ErrNotLoggedIn
			}

			view := whoamiView{User: session.User, UpdatedAt: session.UpdatedAt}
			return writeOutput(cmd, format, view, func() (string, error) {
				return renderWhoami(view), nil
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func renderWhoami(view whoamiView) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render(userLabel(view.User)),
		label.Render("id: ") + string(view.User.ID),
	}
	if view.User.Role != "" {
		lines = append(lines, label.Render("role: ")+string(view.User.Role))
	}
	if !view.UpdatedAt.IsZero() {
		lines = append(lines, label.Render("session updated: ")+view.UpdatedAt.UTC().Format(time.RFC3339))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func userLabel(user domain.User) string {
	name := strings.TrimSpace(user.Name)
	switch {
	case name != "" && user.Email != "":
		return fmt.Sprintf("%s <%s>", name, user.Email)
	case user.Email != "":
		return user.Email
	case name != "":
		return name
	default:
		return string(user.ID)
	}
}

func parseRole(raw string) (domain.Role, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case "", domain.RoleAdmin, domain.RoleManager, domain.RoleMember:
		return role, nil
	default:
		return "", fmt.Errorf("unsupported role %q", raw)
	}
}
