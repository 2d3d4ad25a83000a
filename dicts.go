package goConsole

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrEthical07/goConsole/dispatch"
)

const pathDicts = "/api/system/dicts"

// DictService manages dictionary entries.
type DictService struct {
	c *Client
}

func (s *DictService) List(ctx context.Context, q DictQuery) (Page[Dict], error) {
	return page[Dict](ctx, s.c, dispatch.Request{URL: pathDicts, Params: q})
}

func (s *DictService) Create(ctx context.Context, req CreateDictRequest) (Dict, error) {
	return call[Dict](ctx, s.c, dispatch.Request{Method: http.MethodPost, URL: pathDicts, Params: req})
}

func (s *DictService) Update(ctx context.Context, id int64, req UpdateDictRequest) (Dict, error) {
	if err := checkID(id); err != nil {
		return Dict{}, err
	}
	return call[Dict](ctx, s.c, dispatch.Request{Method: http.MethodPut, URL: fmt.Sprintf("%s/%d", pathDicts, id), Params: req})
}

func (s *DictService) Delete(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, s.c, dispatch.Request{Method: http.MethodDelete, URL: fmt.Sprintf("%s/%d", pathDicts, id)})
}

func (s *DictService) Options(ctx context.Context) ([]Option, error) {
	return call[[]Option](ctx, s.c, dispatch.Request{URL: pathDicts + "/options"})
}

// ByType returns every entry of one dictionary type.
func (s *DictService) ByType(ctx context.Context, dictType string) ([]Dict, error) {
	return call[[]Dict](ctx, s.c, dispatch.Request{URL: pathDicts + "/type/" + url.PathEscape(dictType)})
}
