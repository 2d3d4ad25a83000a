package goConsole

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goConsole/dispatch"
)

const pathUsers = "/api/system/users"

// UserService manages console users.
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context, q UserQuery) (Page[User], error) {
	return page[User](ctx, s.c, dispatch.Request{URL: pathUsers, Params: q})
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	return call[User](ctx, s.c, dispatch.Request{Method: http.MethodPost, URL: pathUsers, Params: req})
}

func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (User, error) {
	if err := checkID(id); err != nil {
		return User{}, err
	}
	return call[User](ctx, s.c, dispatch.Request{Method: http.MethodPut, URL: userPath(id), Params: req})
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{Method: http.MethodDelete, URL: userPath(id)})
}

// UpdateStatus enables or disables a user.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{
		Method: http.MethodPut,
		URL:    userPath(id) + "/status",
		Params: map[string]any{"status": status},
	})
}

// ResetPassword sets a new password for a user.
func (s *UserService) ResetPassword(ctx context.Context, id int64, password string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{
		Method: http.MethodPut,
		URL:    userPath(id) + "/reset-password",
		Params: map[string]any{"password": password},
	})
}

func (s *UserService) StatusOptions(ctx context.Context) ([]Option, error) {
	return call[[]Option](ctx, s.c, dispatch.Request{URL: pathUsers + "/status-options"})
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/%d", pathUsers, id)
}
