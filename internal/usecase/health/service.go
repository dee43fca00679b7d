package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	Elasticsearch = "elasticsearch"
	Redis         = "redis"
)

const defaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine  Pinger
	redis   Pinger
	timeout time.Duration
}

// New creates a Service. redis can be nil when jobs are kept in memory.
func New(engine, redis Pinger) *Service {
	return &Service{engine: engine, redis: redis, timeout: defaultTimeout}
}

// WithTimeout bounds each individual ping.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components. The search engine being
// down is fatal, everything else only degrades the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{Elasticsearch: s.ping(ctx, s.engine)}
	if s.redis != nil {
		checks[Redis] = s.ping(ctx, s.redis)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[Elasticsearch] == CheckError && (s.redis == nil || checks[Redis] == CheckError) {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
