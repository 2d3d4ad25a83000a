package cli

import (
	"errors"
	"fmt"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/spf13/cobra"
)

var errDenied = errors.New("permission denied")

type checkResult struct {
	Code    string `json:"code" yaml:"code"`
	Allowed bool   `json:"allowed" yaml:"allowed"`
}

// NewCanCommand checks permission codes against the current session. It
// fails when any code is denied so scripts can branch on the exit status.
func NewCanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "can <code>...",
		Short: "Check permission codes for the signed-in user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
				results := make([]checkResult, 0, len(args))
				denied := false
				for _, code := range args {
					ok := c.CheckPermission(code)
					denied = denied || !ok
					results = append(results, checkResult{Code: code, Allowed: ok})
				}

				p := newPrinter(rootOpts, cmd.OutOrStdout())
				if ok, err := p.structured(results); ok {
					if err != nil {
						return err
					}
				} else {
					for _, r := range results {
						p.line("%s\t%s", verdict(r.Allowed), r.Code)
					}
				}
				if denied {
					return errDenied
				}
				return nil
			})
		},
	}
}

type routeResult struct {
	Path     string `json:"path" yaml:"path"`
	Decision string `json:"decision" yaml:"decision"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

func NewRouteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show where the console would send the signed-in user for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
				d := c.GuardRoute(args[0])
				res := routeResult{Path: args[0], Decision: d.String(), Location: d.Location()}

				p := newPrinter(rootOpts, cmd.OutOrStdout())
				if ok, err := p.structured(res); ok {
					return err
				}
				if res.Location == "" {
					p.line("%s", res.Decision)
					return nil
				}
				p.line("%s -> %s", res.Decision, res.Location)
				return nil
			})
		},
	}
}

func verdict(ok bool) string {
	if ok {
		return "allow"
	}
	return "deny"
}

func requireSession(c *goConsole.Client) error {
	if !c.Session().Authenticated() {
		return fmt.Errorf("%w: run goconsole login first", errNotLoggedIn)
	}
	return nil
}
