package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/spf13/cobra"
)

type listFlags struct {
	page     int
	pageSize int
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 20, "rows per page")
}

func (f *listFlags) query() goConsole.ListQuery {
	return goConsole.ListQuery{Current: f.page, PageSize: f.pageSize}
}

// sessionCommand wraps fn with a restored, signed-in client.
func sessionCommand(rootOpts *RootOptions, fn func(cmd *cobra.Command, args []string, c *goConsole.Client, p *printer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, rootOpts, func(c *goConsole.Client) error {
			if err := requireSession(c); err != nil {
				return err
			}
			return fn(cmd, args, c, newPrinter(rootOpts, cmd.OutOrStdout()))
		})
	}
}

func printPage[T any](p *printer, page goConsole.Page[T], header []any, row func(T) []any) error {
	if ok, err := p.structured(pageOutput[T]{Total: page.Total, Data: page.Data}); ok {
		return err
	}
	rows := make([][]any, 0, len(page.Data))
	for _, item := range page.Data {
		rows = append(rows, row(item))
	}
	if err := p.table(header, rows); err != nil {
		return err
	}
	p.line("total %d", page.Total)
	return nil
}

// printValue writes v structured, falling back to YAML for text output.
func printValue(p *printer, v any) error {
	if ok, err := p.structured(v); ok {
		return err
	}
	yp := &printer{format: "yaml", w: p.w}
	_, err := yp.structured(v)
	return err
}

func printOptions(p *printer, opts []goConsole.Option) error {
	if ok, err := p.structured(opts); ok {
		return err
	}
	rows := make([][]any, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, []any{o.Value, o.Label})
	}
	return p.table([]any{"VALUE", "LABEL"}, rows)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

/*
====================================
USERS
====================================
*/

func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users"}

	var (
		lf       listFlags
		username string
		status   string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			page, err := c.Users().List(cmd.Context(), goConsole.UserQuery{ListQuery: lf.query(), Username: username, Status: status})
			if err != nil {
				return err
			}
			return printPage(p, page, []any{"ID", "USERNAME", "EMAIL", "STATUS"}, func(u goConsole.User) []any {
				return []any{u.ID, u.Username, u.Email, u.Status}
			})
		}),
	}
	lf.bind(list)
	list.Flags().StringVar(&username, "username", "", "filter by username")
	list.Flags().StringVar(&status, "status", "", "filter by status (1, 2 or all)")

	setStatus := &cobra.Command{
		Use:   "status <id> <normal|disabled>",
		Short: "Enable or disable a user",
		Args:  cobra.ExactArgs(2),
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, args []string, c *goConsole.Client, p *printer) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			return c.Users().UpdateStatus(cmd.Context(), id, st)
		}),
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, args []string, c *goConsole.Client, p *printer) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.Users().Delete(cmd.Context(), id)
		}),
	}

	var newPassword string
	reset := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Set a new password for a user",
		Args:  cobra.ExactArgs(1),
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, args []string, c *goConsole.Client, p *printer) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if newPassword == "" {
				return fmt.Errorf("--password is required")
			}
			return c.Users().ResetPassword(cmd.Context(), id, newPassword)
		}),
	}
	reset.Flags().StringVarP(&newPassword, "password", "p", "", "new password")

	cmd.AddCommand(list, setStatus, del, reset)
	return cmd
}

func parseStatus(s string) (goConsole.Status, error) {
	switch strings.ToLower(s) {
	case "1", "normal", "enable", "enabled":
		return goConsole.StatusNormal, nil
	case "2", "disabled", "disable":
		return goConsole.StatusDisabled, nil
	default:
		return 0, fmt.Errorf("invalid status %q", s)
	}
}

/*
====================================
ROLES
====================================
*/

func NewRolesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "roles", Short: "Manage roles"}

	var (
		lf   listFlags
		name string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			page, err := c.Roles().List(cmd.Context(), goConsole.RoleQuery{ListQuery: lf.query(), Name: name})
			if err != nil {
				return err
			}
			return printPage(p, page, []any{"ID", "CODE", "NAME", "STATUS"}, func(r goConsole.Role) []any {
				return []any{r.ID, r.Code, r.Name, r.Status}
			})
		}),
	}
	lf.bind(list)
	list.Flags().StringVar(&name, "name", "", "filter by name")

	options := &cobra.Command{
		Use:   "options",
		Short: "List role choices",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			opts, err := c.Roles().Options(cmd.Context())
			if err != nil {
				return err
			}
			return printOptions(p, opts)
		}),
	}

	cmd.AddCommand(list, options)
	return cmd
}

/*
====================================
MENUS
====================================
*/

func NewMenusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "menus", Short: "Manage menus"}

	var (
		lf   listFlags
		tree bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List menus, optionally as a tree",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			q := goConsole.MenuQuery{ListQuery: lf.query()}
			if !tree {
				page, err := c.Menus().List(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printPage(p, page, []any{"ID", "PARENT", "CODE", "NAME"}, func(m goConsole.Menu) []any {
					return []any{m.ID, m.ParentID, m.Code, m.Name}
				})
			}

			page, err := c.Menus().Tree(cmd.Context(), q)
			if err != nil {
				return err
			}
			if ok, err := p.structured(pageOutput[goConsole.Menu]{Total: page.Total, Data: page.Data}); ok {
				return err
			}
			printMenuTree(p, page.Data, 0)
			return nil
		}),
	}
	lf.bind(list)
	list.Flags().BoolVar(&tree, "tree", false, "nest menus under their parents")

	options := &cobra.Command{
		Use:   "options",
		Short: "List parent menu choices",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			opts, err := c.Menus().Options(cmd.Context())
			if err != nil {
				return err
			}
			return printOptions(p, opts)
		}),
	}

	cmd.AddCommand(list, options)
	return cmd
}

func printMenuTree(p *printer, menus []goConsole.Menu, depth int) {
	for _, m := range menus {
		p.line("%s%s (%s)", strings.Repeat("  ", depth), m.Name, m.Code)
		printMenuTree(p, m.Children, depth+1)
	}
}

/*
====================================
DICTS
====================================
*/

func NewDictsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "dicts", Short: "Browse dictionaries"}

	var (
		lf       listFlags
		dictType string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List dictionary entries",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			page, err := c.Dicts().List(cmd.Context(), goConsole.DictQuery{ListQuery: lf.query(), DictType: dictType})
			if err != nil {
				return err
			}
			return printPage(p, page, dictHeader, dictRow)
		}),
	}
	lf.bind(list)
	list.Flags().StringVar(&dictType, "type", "", "filter by dictionary type")

	byType := &cobra.Command{
		Use:   "type <dict-type>",
		Short: "Show every entry of one dictionary type",
		Args:  cobra.ExactArgs(1),
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, args []string, c *goConsole.Client, p *printer) error {
			entries, err := c.Dicts().ByType(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printPage(p, goConsole.Page[goConsole.Dict]{Data: entries, Total: int64(len(entries)), Success: true}, dictHeader, dictRow)
		}),
	}

	cmd.AddCommand(list, byType)
	return cmd
}

var dictHeader = []any{"ID", "TYPE", "VALUE", "LABEL", "DEFAULT"}

func dictRow(d goConsole.Dict) []any {
	return []any{d.ID, d.DictType, d.Value, d.Label, d.IsDefault}
}

/*
====================================
LOGS
====================================
*/

func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "logs", Short: "Browse and export operation logs"}

	var (
		lf listFlags
		q  goConsole.LogQuery
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List operation logs",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			q.ListQuery = lf.query()
			page, err := c.Logs().List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printPage(p, page, []any{"ID", "USER", "ACTION", "STATUS", "IP", "AT"}, func(l goConsole.LogEntry) []any {
				return []any{l.ID, l.Username, l.Action, l.Status, l.IPAddress, l.CreatedAt}
			})
		}),
	}
	lf.bind(list)
	bindLogFilters(list, &q)

	var (
		dir string
		eq  goConsole.LogQuery
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Download the matching logs as a file",
		Args:  cobra.NoArgs,
		RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
			path, err := c.Logs().Export(cmd.Context(), eq, dir)
			if err != nil {
				return err
			}
			if ok, err := p.structured(map[string]string{"path": path}); ok {
				return err
			}
			p.line("%s", path)
			return nil
		}),
	}
	export.Flags().StringVar(&dir, "dir", "", "target directory (default from config)")
	bindLogFilters(export, &eq)

	cmd.AddCommand(list, export)
	return cmd
}

func bindLogFilters(cmd *cobra.Command, q *goConsole.LogQuery) {
	cmd.Flags().StringVar(&q.Search, "search", "", "free text search")
	cmd.Flags().StringVar(&q.Username, "username", "", "filter by username")
	cmd.Flags().StringVar(&q.Action, "action", "", "filter by action")
	cmd.Flags().StringVar(&q.IPAddress, "ip", "", "filter by IP address")
}

/*
====================================
DASHBOARD
====================================
*/

func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "dashboard", Short: "Show dashboard figures"}

	views := []struct {
		use   string
		short string
		fetch func(context.Context, *goConsole.DashboardService) (any, error)
	}{
		{"stats", "User and login counters", func(ctx context.Context, s *goConsole.DashboardService) (any, error) { return s.Stats(ctx) }},
		{"health", "Memory, CPU and disk usage", func(ctx context.Context, s *goConsole.DashboardService) (any, error) { return s.Health(ctx) }},
		{"metrics", "Response time and error rate", func(ctx context.Context, s *goConsole.DashboardService) (any, error) { return s.Metrics(ctx) }},
		{"trends", "User activity over time", func(ctx context.Context, s *goConsole.DashboardService) (any, error) { return s.Trends(ctx) }},
	}

	for _, v := range views {
		fetch := v.fetch
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Args:  cobra.NoArgs,
			RunE: sessionCommand(rootOpts, func(cmd *cobra.Command, _ []string, c *goConsole.Client, p *printer) error {
				data, err := fetch(cmd.Context(), c.Dashboard())
				if err != nil {
					return err
				}
				return printValue(p, data)
			}),
		})
	}

	return cmd
}
