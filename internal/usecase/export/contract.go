package export

import (
	"context"
	"time"

	"github.com/kailas-cloud/leadex/internal/db"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/usecase/search"
)

// Planner compiles a filter into the same plan interactive search uses.
type Planner interface {
	Prepare(ctx context.Context, req filter.Request) (search.Plan, error)
}

// Scroller streams every match of a query through a server-side cursor.
type Scroller interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResponse, error)
	Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*db.SearchResponse, error)
	ClearScroll(ctx context.Context, scrollID string) error
}

// JobStore persists export job state.
type JobStore interface {
	Create(ctx context.Context, j domjob.Job) error
	Update(ctx context.Context, id string, p domjob.Patch) (domjob.Job, error)
	Get(ctx context.Context, id string) (domjob.Job, error)
}

// Archiver copies a finished export file to long-term storage.
type Archiver interface {
	Upload(ctx context.Context, name, filePath string) (string, error)
}
