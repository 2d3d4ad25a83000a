package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	BaseURL    string
	Verbose    bool
	Output     string // "text" | "json" | "yaml"
}

// ValidOutputs lists the accepted --output values.
var ValidOutputs = []string{"text", "json", "yaml"}

// NewRootCommand builds the goconsole command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "goconsole",
		Short: "Admin console client",
		Long: `goconsole signs in to the admin console backend and manages users,
roles, menus, dictionaries and logs from the terminal.

The session is kept between invocations in a local file, or in Redis when
the configuration selects the redis backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidOutputs, opts.Output) {
				return fmt.Errorf("invalid output %q: must be one of %v", opts.Output, ValidOutputs)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "backend base URL, overriding config and environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewCanCommand(opts))
	cmd.AddCommand(NewRouteCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewRolesCommand(opts))
	cmd.AddCommand(NewMenusCommand(opts))
	cmd.AddCommand(NewDictsCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))

	return cmd
}
