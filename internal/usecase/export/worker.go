package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/lead"
	"github.com/kailas-cloud/leadex/internal/logger"
	"github.com/kailas-cloud/leadex/internal/metrics"
	"github.com/kailas-cloud/leadex/internal/usecase/search"
)

// DefaultKeepAlive is how long the engine keeps a scroll cursor between fetches.
const DefaultKeepAlive = 2 * time.Minute

const clearScrollTimeout = 10 * time.Second

// docOrder sorts scroll batches in index order, the cheapest order to page through.
var docOrder = []map[string]any{{"_doc": map[string]any{"order": "asc"}}}

// Worker writes every match of a plan to a CSV file.
type Worker struct {
	engine    Scroller
	jobs      JobStore
	batchSize int
	keepAlive time.Duration
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewWorker creates an export worker with default batching.
func NewWorker(engine Scroller, jobs JobStore, logger *zap.Logger) *Worker {
	return &Worker{
		engine:    engine,
		jobs:      jobs,
		batchSize: domain.DefaultExportBatch,
		keepAlive: DefaultKeepAlive,
		logger:    logger,
	}
}

// WithBatchSize sets the scroll batch size, clamped to the allowed range.
func (w *Worker) WithBatchSize(n int) *Worker {
	w.batchSize = domain.ClampBatch(n)
	return w
}

// WithKeepAlive sets the scroll keep-alive sent on every fetch.
func (w *Worker) WithKeepAlive(d time.Duration) *Worker {
	if d > 0 {
		w.keepAlive = d
	}
	return w
}

// WithRateLimit paces scroll fetches to perSec batches per second. Zero disables pacing.
func (w *Worker) WithRateLimit(perSec float64) *Worker {
	if perSec > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	}
	return w
}

// Run streams the plan into j.Filepath and returns the number of rows written.
// The scroll cursor is cleared exactly once however Run exits. On error the
// partial file is left in place.
func (w *Worker) Run(ctx context.Context, j domjob.Job, plan search.Plan) (int64, error) {
	f, err := os.Create(j.Filepath)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(lead.Header()); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	var scrollID string
	defer func() {
		if scrollID != "" {
			w.clearScroll(ctx, scrollID)
		}
	}()

	res, err := w.engine.Search(ctx, &db.SearchQuery{
		Indices:        plan.Indices,
		Query:          plan.Query,
		Size:           w.batchSize,
		Sort:           docOrder,
		TrackTotalHits: true,
		Scroll:         w.keepAlive,
	})
	if err != nil {
		return 0, fmt.Errorf("open scroll: %w", err)
	}
	scrollID = res.ScrollID

	total := res.Total
	if _, err := w.jobs.Update(ctx, j.ID, domjob.Patch{Total: &total}); err != nil {
		return 0, fmt.Errorf("record total: %w", err)
	}

	var processed int64
	for batch := 1; len(res.Hits) > 0; batch++ {
		for _, h := range res.Hits {
			rec := lead.Normalize(h.Source)
			if h.ID != "" {
				rec[lead.DocIDKey] = h.ID
			}
			if err := cw.Write(lead.Row(rec)); err != nil {
				return processed, fmt.Errorf("write batch %d: %w", batch, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return processed, fmt.Errorf("flush batch %d: %w", batch, err)
		}

		processed += int64(len(res.Hits))
		metrics.ExportRowsTotal.Add(float64(len(res.Hits)))
		if _, err := w.jobs.Update(ctx, j.ID, domjob.Progress(processed)); err != nil {
			return processed, fmt.Errorf("record progress: %w", err)
		}

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return processed, fmt.Errorf("pace batch %d: %w", batch+1, err)
			}
		}
		res, err = w.engine.Scroll(ctx, scrollID, w.keepAlive)
		if err != nil {
			return processed, fmt.Errorf("fetch batch %d: %w", batch+1, err)
		}
		if res.ScrollID != "" {
			scrollID = res.ScrollID
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return processed, fmt.Errorf("flush: %w", err)
	}
	if err := f.Sync(); err != nil {
		return processed, fmt.Errorf("sync export file: %w", err)
	}
	return processed, nil
}

// clearScroll runs detached from ctx so a cancelled export still frees its cursor.
func (w *Worker) clearScroll(ctx context.Context, scrollID string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), clearScrollTimeout)
	defer cancel()
	if err := w.engine.ClearScroll(cctx, scrollID); err != nil {
		logger.FromContext(ctx, w.logger).Warn("Failed to clear scroll", zap.Error(err))
	}
}
