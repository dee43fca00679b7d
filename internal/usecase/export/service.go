package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/logger"
	"github.com/kailas-cloud/leadex/internal/metrics"
)

// DefaultDir is where export files are written unless configured otherwise.
const DefaultDir = "./exports"

// Service starts exports and reports on them.
type Service struct {
	planner Planner
	jobs    JobStore
	worker  *Worker
	pool    *Pool
	archive Archiver
	dir     string
	now     func() time.Time
	logger  *zap.Logger
}

// New creates an export service.
func New(planner Planner, jobs JobStore, worker *Worker, pool *Pool, logger *zap.Logger) *Service {
	return &Service{
		planner: planner,
		jobs:    jobs,
		worker:  worker,
		pool:    pool,
		dir:     DefaultDir,
		now:     time.Now,
		logger:  logger,
	}
}

// WithDir sets the export directory.
func (s *Service) WithDir(dir string) *Service {
	if dir != "" {
		s.dir = dir
	}
	return s
}

// WithArchive uploads every finished export through a.
func (s *Service) WithArchive(a Archiver) *Service {
	s.archive = a
	return s
}

// Start validates the filter against the live indices, records a running
// job and schedules the export. The returned job is the initial record.
func (s *Service) Start(ctx context.Context, req filter.Request) (domjob.Job, error) {
	plan, err := s.planner.Prepare(ctx, req)
	if err != nil {
		return domjob.Job{}, fmt.Errorf("prepare export: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return domjob.Job{}, fmt.Errorf("create export dir: %w", err)
	}

	now := s.now()
	id := uuid.NewString()
	name := domjob.Filename(id, now)
	j := domjob.New(id, name, filepath.Join(s.dir, name), now)
	if err := s.jobs.Create(ctx, j); err != nil {
		return domjob.Job{}, fmt.Errorf("create job: %w", err)
	}

	log := logger.FromContext(ctx, s.logger).With(zap.String("job_id", id))
	log.Info("Export started", zap.Strings("indices", plan.Indices), zap.String("file", name))

	s.pool.Go(func(ctx context.Context) {
		ctx = logger.ContextWithLogger(ctx, log)
		metrics.ExportsRunning.Inc()
		defer metrics.ExportsRunning.Dec()

		processed, err := s.worker.Run(ctx, j, plan)
		if err != nil {
			s.fail(ctx, id, err)
			return
		}
		s.finish(ctx, j, processed)
	}, func(err error) {
		s.fail(logger.ContextWithLogger(context.Background(), log), id, err)
	})

	return j, nil
}

// Status returns the current job record.
func (s *Service) Status(ctx context.Context, id string) (domjob.Job, error) {
	j, err := s.jobs.Get(ctx, id)
	if err != nil {
		return domjob.Job{}, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Download returns a finished job whose file is present on disk.
func (s *Service) Download(ctx context.Context, id string) (domjob.Job, error) {
	j, err := s.Status(ctx, id)
	if err != nil {
		return domjob.Job{}, err
	}
	if !j.Downloadable() {
		return domjob.Job{}, fmt.Errorf("%w: job is %s", domain.ErrExportNotReady, j.Status)
	}
	if _, err := os.Stat(j.Filepath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domjob.Job{}, fmt.Errorf("%w: export file is gone", domain.ErrJobNotFound)
		}
		return domjob.Job{}, fmt.Errorf("stat export file: %w", err)
	}
	return j, nil
}

// Shutdown cancels running exports and waits for them to record their state.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.pool.Shutdown(ctx)
}

func (s *Service) finish(ctx context.Context, j domjob.Job, processed int64) {
	log := logger.FromContext(ctx, s.logger)
	ctx = context.WithoutCancel(ctx)

	if _, err := s.jobs.Update(ctx, j.ID, domjob.Done(processed)); err != nil {
		log.Error("Failed to mark export done", zap.Error(err))
		return
	}
	metrics.ExportJobsTotal.WithLabelValues(string(domjob.StatusDone)).Inc()
	log.Info("Export finished", zap.Int64("rows", processed))

	if s.archive == nil {
		return
	}
	key, err := s.archive.Upload(ctx, j.Filename, j.Filepath)
	if err != nil {
		log.Warn("Export archive upload failed", zap.Error(err))
		return
	}
	if _, err := s.jobs.Update(ctx, j.ID, domjob.Patch{ArchiveKey: &key}); err != nil {
		log.Warn("Failed to record archive key", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) fail(ctx context.Context, id string, cause error) {
	log := logger.FromContext(ctx, s.logger)
	log.Error("Export failed", zap.Error(cause))
	metrics.ExportJobsTotal.WithLabelValues(string(domjob.StatusError)).Inc()
	if _, err := s.jobs.Update(context.WithoutCancel(ctx), id, domjob.Failed(cause)); err != nil {
		log.Error("Failed to mark export failed", zap.Error(err))
	}
}
