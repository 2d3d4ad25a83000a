package goConsole

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goConsole/dispatch"
)

const pathRoles = "/api/system/roles"

// RoleService manages roles.
type RoleService struct {
	c *Client
}

func (s *RoleService) List(ctx context.Context, q RoleQuery) (Page[Role], error) {
	return page[Role](ctx, s.c, dispatch.Request{URL: pathRoles, Params: q})
}

func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (Role, error) {
	return call[Role](ctx, s.c, dispatch.Request{Method: http.MethodPost, URL: pathRoles, Params: req})
}

func (s *RoleService) Update(ctx context.Context, id int64, req UpdateRoleRequest) (Role, error) {
	if err := checkID(id); err != nil {
		return Role{}, err
	}
	return call[Role](ctx, s.c, dispatch.Request{Method: http.MethodPut, URL: fmt.Sprintf("%s/%d", pathRoles, id), Params: req})
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{Method: http.MethodDelete, URL: fmt.Sprintf("%s/%d", pathRoles, id)})
}

func (s *RoleService) Options(ctx context.Context) ([]Option, error) {
	return call[[]Option](ctx, s.c, dispatch.Request{URL: pathRoles + "/options"})
}
