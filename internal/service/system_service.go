package service

import (
	"context"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	source    datasource.Source
	dashboard *DashboardService
}

// NewSystemService creates a new SystemService
func NewSystemService(source datasource.Source, dashboard *DashboardService) *SystemService {
	return &SystemService{
		source:    source,
		dashboard: dashboard,
	}
}

// Health is the health report of the service.
type Health struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Degraded bool   `json:"degraded"`
}

// CheckHealth pings the data source when it supports it. A failing ping
// makes the service unhealthy; a degraded dashboard is reported but still
// healthy, since it serves the fallback dataset.
func (s *SystemService) CheckHealth(ctx context.Context) (Health, error) {
	h := Health{Status: "healthy", Source: "ok", Degraded: s.dashboard.State().Degraded}
	if p, ok := s.source.(datasource.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			h.Status = "unhealthy"
			h.Source = "unreachable"
			return h, err
		}
	}
	return h, nil
}

func (s *SystemService) CheckVersion() string {
	return version.Version
}
