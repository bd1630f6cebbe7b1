package docqa

import (
	"context"

	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status         string            // "ok", "degraded", "error"
	DocumentsCount int               // accepted files in the directory
	Checks         map[string]string // component → "ok"/"error"
}

// Health checks the knowledge-base directory and the cache store, if any.
func (c *Client) Health(ctx context.Context) HealthStatus {
	id, start := c.obs.begin()
	defer func() { c.obs.observe("health", id, start, nil) }()

	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:         string(report.Status),
		DocumentsCount: report.DocumentsCount,
		Checks:         checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
