package goConsole

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/MrEthical07/goConsole/dispatch"
	"github.com/MrEthical07/goConsole/internal/notify"
	"github.com/MrEthical07/goConsole/session"
)

// Client is the process-scoped console client. Create it with [Builder].
type Client struct {
	config     Config
	store      *session.Store
	dispatcher *dispatch.Dispatcher
	notify     *notify.Dispatcher
	metrics    *Metrics
	logger     *slog.Logger
	closed     atomic.Bool
}

// Session exposes the session store.
func (c *Client) Session() *session.Store {
	return c.store
}

// Dispatcher exposes the request dispatcher for endpoints without a typed
// service.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

func (c *Client) Config() Config {
	return cloneConfig(c.config)
}

func (c *Client) Metrics() *Metrics {
	return c.metrics
}

func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// NotifyDropped returns how many notices the async notifier discarded.
func (c *Client) NotifyDropped() uint64 {
	return c.notify.Dropped()
}

// Restore loads the persisted session, if any.
func (c *Client) Restore(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		c.logger.Warn("session restore failed", "error", err)
		return err
	}
	if user := c.store.User(); user != nil {
		c.logger.Debug("session restored", "user_id", user.ID, "username", user.Username)
	}
	return nil
}

// CheckPermission reports whether the current user holds code.
func (c *Client) CheckPermission(code string) bool {
	ok := c.store.Permissions().Allows(code)
	if ok {
		c.metrics.Inc(MetricPermissionAllowed)
	} else {
		c.metrics.Inc(MetricPermissionDenied)
	}
	return ok
}

// CheckMenuPermission reports whether the current user may open the route
// at path.
func (c *Client) CheckMenuPermission(path string) bool {
	ok := c.store.Permissions().AllowsPath(path)
	if ok {
		c.metrics.Inc(MetricPermissionAllowed)
	} else {
		c.metrics.Inc(MetricPermissionDenied)
	}
	return ok
}

// Close aborts in-flight calls, stops session mutations and drains queued
// notices. The persisted session is kept so a later process can restore it.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if n := c.dispatcher.CancelAll(); n > 0 {
		c.logger.Debug("aborted in-flight calls on close", "count", n)
	}
	err := c.store.Close()
	c.notify.Close()
	return err
}

func (c *Client) Auth() *AuthService           { return &AuthService{c: c} }
func (c *Client) Users() *UserService          { return &UserService{c: c} }
func (c *Client) Roles() *RoleService          { return &RoleService{c: c} }
func (c *Client) Menus() *MenuService          { return &MenuService{c: c} }
func (c *Client) Dicts() *DictService          { return &DictService{c: c} }
func (c *Client) Logs() *LogService            { return &LogService{c: c} }
func (c *Client) Dashboard() *DashboardService { return &DashboardService{c: c} }

func (c *Client) prepare(ctx context.Context, req dispatch.Request) (dispatch.Request, error) {
	if c.closed.Load() {
		return req, ErrClientClosed
	}
	return applyCallOptions(ctx, req), nil
}

func call[T any](ctx context.Context, c *Client, req dispatch.Request) (T, error) {
	req, err := c.prepare(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return dispatch.Send[T](ctx, c.dispatcher, req)
}

func exec(ctx context.Context, c *Client, req dispatch.Request) error {
	_, err := call[json.RawMessage](ctx, c, req)
	return err
}

func page[T any](ctx context.Context, c *Client, req dispatch.Request) (dispatch.Page[T], error) {
	req, err := c.prepare(ctx, req)
	if err != nil {
		return dispatch.Page[T]{}, err
	}
	return dispatch.Paginate[T](ctx, c.dispatcher, req)
}

func download(ctx context.Context, c *Client, req dispatch.Request, dir string) (string, error) {
	req, err := c.prepare(ctx, req)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = c.config.API.DownloadDir
	}
	return dispatch.Download(ctx, c.dispatcher, req, dir)
}

func checkID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}
