package goConsole

import (
	"context"

	"github.com/MrEthical07/goConsole/dispatch"
)

// DashboardService reads the dashboard figures.
type DashboardService struct {
	c *Client
}

func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	return call[DashboardStats](ctx, s.c, dispatch.Request{URL: "/api/dashboard/stats"})
}

func (s *DashboardService) Health(ctx context.Context) (SystemHealth, error) {
	return call[SystemHealth](ctx, s.c, dispatch.Request{URL: "/api/dashboard/health"})
}

func (s *DashboardService) Metrics(ctx context.Context) (SystemMetrics, error) {
	return call[SystemMetrics](ctx, s.c, dispatch.Request{URL: "/api/dashboard/metrics"})
}

func (s *DashboardService) Trends(ctx context.Context) (UserActivity, error) {
	return call[UserActivity](ctx, s.c, dispatch.Request{URL: "/api/dashboard/trends"})
}
