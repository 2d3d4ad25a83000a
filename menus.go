package goConsole

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrEthical07/goConsole/dispatch"
)

const pathMenus = "/api/system/menus"

// RootMenuOption is prepended to [MenuService.Options] so a menu can be
// placed at the top level.
var RootMenuOption = Option{Label: "Root", Value: int64(0)}

// MenuService manages menus.
type MenuService struct {
	c *Client
}

// List returns one page of menus as a flat list.
func (s *MenuService) List(ctx context.Context, q MenuQuery) (Page[Menu], error) {
	return page[Menu](ctx, s.c, dispatch.Request{URL: pathMenus, Params: q})
}

// Tree returns one page of menus nested under their parents, starting at
// the top level.
func (s *MenuService) Tree(ctx context.Context, q MenuQuery) (Page[Menu], error) {
	p, err := s.List(ctx, q)
	if err != nil {
		return p, err
	}
	p.Data = BuildMenuTree(p.Data, 0)
	return p, nil
}

func (s *MenuService) Create(ctx context.Context, req MenuRequest) (Menu, error) {
	return call[Menu](ctx, s.c, dispatch.Request{Method: http.MethodPost, URL: pathMenus, Params: req})
}

func (s *MenuService) Update(ctx context.Context, id int64, req MenuRequest) (Menu, error) {
	if err := checkID(id); err != nil {
		return Menu{}, err
	}
	return call[Menu](ctx, s.c, dispatch.Request{Method: http.MethodPut, URL: fmt.Sprintf("%s/%d", pathMenus, id), Params: req})
}

func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{Method: http.MethodDelete, URL: fmt.Sprintf("%s/%d", pathMenus, id)})
}

// Options returns the parent choices, led by [RootMenuOption].
func (s *MenuService) Options(ctx context.Context) ([]Option, error) {
	opts, err := call[[]Option](ctx, s.c, dispatch.Request{URL: pathMenus + "/options"})
	if err != nil {
		return nil, err
	}
	return append([]Option{RootMenuOption}, opts...), nil
}

// BuildMenuTree nests list under parentID, keeping input order at each
// level. Leaves have nil Children. Entries whose parent is absent from list
// are dropped.
func BuildMenuTree(list []Menu, parentID int64) []Menu {
	return buildMenuTree(list, parentID, map[int64]bool{})
}

func buildMenuTree(list []Menu, parentID int64, visiting map[int64]bool) []Menu {
	if visiting[parentID] {
		return nil
	}
	visiting[parentID] = true
	defer delete(visiting, parentID)

	out := make([]Menu, 0)
	for _, item := range list {
		if item.ParentID != parentID {
			continue
		}
		node := item
		node.Children = nil
		if children := buildMenuTree(list, item.ID, visiting); len(children) > 0 {
			node.Children = children
		}
		out = append(out, node)
	}
	return out
}
