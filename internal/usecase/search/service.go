package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	"github.com/kailas-cloud/leadex/internal/domain/search/field"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/domain/search/query"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
	"github.com/kailas-cloud/leadex/internal/domain/search/sorting"
	"github.com/kailas-cloud/leadex/internal/logger"
	"github.com/kailas-cloud/leadex/internal/metrics"
)

// Page size defaults.
const (
	DefaultPageSize = 25
	MaxPageSize     = 200
)

// Plan is a resolved query: where to search, what the indices look like,
// and the compiled filter. Interactive search and export share it.
type Plan struct {
	Indices []string
	Mapping field.Mapping
	Query   query.Clause
}

// Params are the pagination and sort inputs of an interactive search.
type Params struct {
	Offset    int
	Limit     int
	SortField string
	SortDir   string
}

// Service executes lead searches.
type Service struct {
	indices     IndexResolver
	mappings    MappingReader
	engine      Engine
	defaultSize int
	maxSize     int
	logger      *zap.Logger
}

// New creates a search service.
func New(indices IndexResolver, mappings MappingReader, engine Engine, logger *zap.Logger) *Service {
	return &Service{
		indices:     indices,
		mappings:    mappings,
		engine:      engine,
		defaultSize: DefaultPageSize,
		maxSize:     MaxPageSize,
		logger:      logger,
	}
}

// WithPageSizes overrides the default and maximum page sizes.
func (s *Service) WithPageSizes(defaultSize, maxSize int) *Service {
	if maxSize > 0 {
		s.maxSize = maxSize
	}
	if defaultSize > 0 {
		s.defaultSize = min(defaultSize, s.maxSize)
	}
	return s
}

// Prepare resolves indices, reads their mapping and builds the query.
func (s *Service) Prepare(ctx context.Context, req filter.Request) (Plan, error) {
	indices, err := s.indices.Indices(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve indices: %w", err)
	}
	m := s.mappings.Mapping(ctx, indices)
	return Plan{
		Indices: indices,
		Mapping: m,
		Query:   query.NewBuilder(m).Build(req),
	}, nil
}

// Search runs one page of an interactive search.
func (s *Service) Search(ctx context.Context, req filter.Request, p Params) (result.Page, error) {
	start := time.Now()
	page, err := s.search(ctx, req, p)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(outcome(err)).Inc()
	return page, err
}

func (s *Service) search(ctx context.Context, req filter.Request, p Params) (result.Page, error) {
	plan, err := s.Prepare(ctx, req)
	if err != nil {
		return result.Page{}, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = s.defaultSize
	}
	limit = min(limit, s.maxSize)
	offset := max(p.Offset, 0)

	srt := sorting.Resolve(plan.Mapping, p.SortField, p.SortDir)
	q := &db.SearchQuery{
		Indices:        plan.Indices,
		Query:          plan.Query,
		From:           offset,
		Size:           limit,
		Sort:           srt.Clauses(),
		TrackTotalHits: true,
	}

	res, err := s.searchWithRetry(ctx, q)
	if err != nil {
		return result.Page{}, err
	}

	total := res.Total
	estimate := res.TotalRelation == db.RelationGte
	if estimate {
		total, estimate = s.exactCount(ctx, plan, total)
	}

	rows := make([]result.Row, 0, len(res.Hits))
	for _, h := range res.Hits {
		rows = append(rows, result.NewRow(h.ID, h.Index, h.Source))
	}
	return result.New(rows, total, estimate, offset, limit, plan.Indices), nil
}

// exactCount replaces a lower-bound total with an exact count. A failed
// count keeps the estimate.
func (s *Service) exactCount(ctx context.Context, plan Plan, estimate int64) (int64, bool) {
	n, err := s.engine.Count(ctx, plan.Indices, plan.Query)
	if err != nil {
		metrics.CountFallbacksTotal.WithLabelValues("error").Inc()
		logger.FromContext(ctx, s.logger).Warn("Count fallback failed, keeping estimate",
			zap.Int64("estimate", estimate), zap.Error(err))
		return estimate, true
	}
	metrics.CountFallbacksTotal.WithLabelValues("ok").Inc()
	return n, false
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoIndex):
		return "no_index"
	case errors.Is(err, domain.ErrShardFailure):
		return "shard_failure"
	default:
		return "error"
	}
}
