package leadex

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
)

// Aggregated health states.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is the result of probing the backends.
type HealthStatus struct {
	Status string            // HealthOK, HealthDegraded or HealthError
	Checks map[string]string // "elasticsearch", "redis" → "ok"/"error"
}

// Healthy reports whether every backend answered.
func (h HealthStatus) Healthy() bool { return h.Status == HealthOK }

// Health pings Elasticsearch and, with WithRedisJobs, Redis.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	h := HealthStatus{Status: string(report.Status), Checks: checks}
	c.obs.observe("health", start, nil, "status", h.Status)
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
