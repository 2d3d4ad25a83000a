package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/jwt"
	"github.com/MrEthical07/goConsole/permission"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// EnvPassword supplies the login password when --password is not given.
const EnvPassword = "GOCONSOLE_PASSWORD"

var errNotLoggedIn = errors.New("not logged in")

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		username string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Long: `Sign in with a username and password. The password is taken from
--password, then GOCONSOLE_PASSWORD, then stdin. A terminal is prompted
with echo disabled; piped input supplies its first line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				password = os.Getenv(EnvPassword)
			}
			if password == "" {
				p, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				password = p
			}

			return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
				user, err := c.Auth().Login(cmd.Context(), goConsole.LoginRequest{
					Username:   username,
					Password:   password,
					RememberMe: remember,
				})
				if err != nil {
					return err
				}
				p := newPrinter(rootOpts, cmd.OutOrStdout())
				if ok, err := p.structured(user); ok {
					return err
				}
				p.line("logged in as %s", user.Username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "ask the backend for a long-lived token")

	return cmd
}

// readPassword prompts without echo when in is a terminal and otherwise
// reads the first line of in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
				if !c.Session().Authenticated() {
					return errNotLoggedIn
				}
				return c.Auth().Logout(cmd.Context())
			})
		},
	}
}

type whoamiOutput struct {
	User        *goConsole.UserInfo `json:"user" yaml:"user"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	Permissions []string            `json:"permissions" yaml:"permissions"`
}

func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and effective permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
				if !c.Session().Authenticated() {
					return errNotLoggedIn
				}
				user := c.Session().User()
				if refresh {
					fresh, err := c.Auth().Me(cmd.Context())
					if err != nil {
						return err
					}
					user = fresh
				}

				out := whoamiOutput{
					User:        user,
					Permissions: permission.ConsoleRegistry().Expand(c.Session().Permissions()),
				}
				if exp, ok := jwt.ExpiresAt(c.Session().Token()); ok {
					out.ExpiresAt = &exp
				}

				p := newPrinter(rootOpts, cmd.OutOrStdout())
				if ok, err := p.structured(out); ok {
					return err
				}
				if user != nil {
					p.line("%s (id %d)", user.Username, user.ID)
				}
				if out.ExpiresAt != nil {
					p.line("expires %s", out.ExpiresAt.Format(time.RFC3339))
				}
				for _, code := range out.Permissions {
					p.line("  %s", code)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the user from the backend")

	return cmd
}
