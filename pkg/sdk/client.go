package leadex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbElastic "github.com/kailas-cloud/leadex/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/leadex/internal/db/redis"
	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
	"github.com/kailas-cloud/leadex/internal/repository/archive"
	"github.com/kailas-cloud/leadex/internal/repository/index"
	jobrepo "github.com/kailas-cloud/leadex/internal/repository/job"
	"github.com/kailas-cloud/leadex/internal/repository/mapping"
	exportuc "github.com/kailas-cloud/leadex/internal/usecase/export"
	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, req filter.Request, p searchuc.Params) (result.Page, error)
}

type exportUseCase interface {
	Start(ctx context.Context, req filter.Request) (domjob.Job, error)
	Status(ctx context.Context, id string) (domjob.Job, error)
	Download(ctx context.Context, id string) (domjob.Job, error)
	Shutdown(ctx context.Context) error
}

// Client is the leadex SDK entry point.
type Client struct {
	searchSvc searchUseCase
	exportSvc exportUseCase
	healthSvc healthUseCase
	closers   []func()
	obs       *observer
}

// New creates a Client and checks that Elasticsearch answers.
// The provided context is used for the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index:           domain.DefaultIndices[0],
		fallbackIndices: domain.DefaultIndices[1:],
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.esAddrs) == 0 {
		return nil, errors.New("leadex: elasticsearch address required (use WithElasticsearch)")
	}

	engine, err := dbElastic.NewEngine(dbElastic.Config{
		Addrs:    cfg.esAddrs,
		Username: cfg.esUsername,
		Password: cfg.esPassword,
		APIKey:   cfg.esAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("leadex: create elasticsearch client: %w", err)
	}
	if err := engine.Ping(ctx); err != nil {
		return nil, fmt.Errorf("leadex: elasticsearch not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		jobs        exportuc.JobStore = jobrepo.NewMemoryStore()
		redisPinger healthuc.Pinger
		closers     []func()
	)
	if cfg.redisAddr != "" {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("leadex: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("leadex: redis not ready: %w", err)
		}
		ttl := cfg.jobTTL
		if ttl <= 0 {
			ttl = 72 * time.Hour
		}
		jobs = jobrepo.NewRedisStore(store, ttl)
		redisPinger = store
		closers = append(closers, store.Close)
	}

	var arch exportuc.Archiver
	if cfg.archive != nil {
		store, err := archive.NewStore(*cfg.archive)
		if err != nil {
			for _, closeFn := range closers {
				closeFn()
			}
			return nil, fmt.Errorf("leadex: create export archive: %w", err)
		}
		arch = store
	}

	c := wireClient(engine, jobs, arch, cfg, obs)
	c.healthSvc = healthuc.New(engine, redisPinger)
	c.closers = closers
	return c, nil
}

// backend is everything the SDK needs from the search engine.
type backend interface {
	exportuc.Scroller
	searchuc.Engine
	IndexExists(ctx context.Context, name string) (bool, error)
	GetMapping(ctx context.Context, index string) (map[string]any, error)
}

func wireClient(e backend, jobs exportuc.JobStore, arch exportuc.Archiver, cfg *clientConfig, obs *observer) *Client {
	// Internal services log through zap; SDK callers see slog via the observer.
	log := zap.NewNop()

	resolver := index.New(e, cfg.index, cfg.fallbackIndices, log)
	introspector := mapping.New(e, nil, log)
	if cfg.mappingTTL > 0 {
		introspector = introspector.WithCache(cfg.mappingCache, cfg.mappingTTL)
	}

	searchSvc := searchuc.New(resolver, introspector, e, log).
		WithPageSizes(cfg.defaultPageSize, cfg.maxPageSize)

	worker := exportuc.NewWorker(e, jobs, log).
		WithBatchSize(cfg.exportBatch).
		WithKeepAlive(cfg.keepAlive).
		WithRateLimit(cfg.batchesPerSec)
	maxConcurrent := cfg.maxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	exportSvc := exportuc.New(searchSvc, jobs, worker, exportuc.NewPool(maxConcurrent), log).
		WithDir(cfg.exportDir)
	if arch != nil {
		exportSvc.WithArchive(arch)
	}

	return &Client{
		searchSvc: searchSvc,
		exportSvc: exportSvc,
		obs:       obs,
	}
}

// Close cancels running exports, waits for them until ctx expires and
// releases connections.
func (c *Client) Close(ctx context.Context) error {
	var err error
	if c.exportSvc != nil {
		err = c.exportSvc.Shutdown(ctx)
	}
	for _, closeFn := range c.closers {
		closeFn()
	}
	if err != nil {
		return fmt.Errorf("leadex: close: %w", err)
	}
	return nil
}
