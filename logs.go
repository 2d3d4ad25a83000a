package goConsole

import (
	"context"

	"github.com/MrEthical07/goConsole/dispatch"
)

const pathLogs = "/api/system/logs"

// LogService reads the operation log.
type LogService struct {
	c *Client
}

func (s *LogService) List(ctx context.Context, q LogQuery) (Page[LogEntry], error) {
	return page[LogEntry](ctx, s.c, dispatch.Request{URL: pathLogs, Params: q})
}

// Export downloads the log export into dir, or into Config.API.DownloadDir
// when dir is empty. It returns the saved file name.
func (s *LogService) Export(ctx context.Context, q LogQuery, dir string) (string, error) {
	return download(ctx, s.c, dispatch.Request{
		URL:    pathLogs + "/export",
		Params: q,
	}, dir)
}
