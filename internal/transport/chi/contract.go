package chi

import (
	"context"

	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
)

// Searcher runs interactive lead searches.
type Searcher interface {
	Search(ctx context.Context, req filter.Request, p searchuc.Params) (result.Page, error)
}

// Exporter manages background CSV exports.
type Exporter interface {
	Start(ctx context.Context, req filter.Request) (domjob.Job, error)
	Status(ctx context.Context, id string) (domjob.Job, error)
	Download(ctx context.Context, id string) (domjob.Job, error)
}

// HealthChecker aggregates backend health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
