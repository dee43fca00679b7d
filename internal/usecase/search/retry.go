package search

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	"github.com/kailas-cloud/leadex/internal/logger"
	"github.com/kailas-cloud/leadex/internal/metrics"
)

// Engine error types reported for shard-level or search-phase failures.
var shardFailureTypes = map[string]struct{}{
	"search_phase_execution_exception": {},
	"query_shard_exception":            {},
	"shard_failure":                    {},
}

// searchWithRetry runs q and, when it carried a sort and failed, runs it
// once more without the sort. Errors come back as *domain.SearchError.
func (s *Service) searchWithRetry(ctx context.Context, q *db.SearchQuery) (*db.SearchResponse, error) {
	res, err := s.engine.Search(ctx, q)
	if err == nil {
		return res, nil
	}
	if len(q.Sort) == 0 || ctx.Err() != nil {
		return nil, classify(err)
	}

	logger.FromContext(ctx, s.logger).Warn("Sorted search failed, retrying without sort", zap.Error(err))
	metrics.SortRetriesTotal.Inc()

	unsorted := *q
	unsorted.Sort = nil
	res, err = s.engine.Search(ctx, &unsorted)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// classify maps an engine failure to ErrShardFailure or ErrSearchFailed.
func classify(err error) *domain.SearchError {
	se := &domain.SearchError{Kind: domain.ErrSearchFailed, Err: err}
	var ee *db.EngineError
	if !errors.As(err, &ee) {
		return se
	}
	se.Type = ee.Type
	se.Reason = ee.Reason
	if isShardFailure(ee) {
		se.Kind = domain.ErrShardFailure
	}
	return se
}

func isShardFailure(ee *db.EngineError) bool {
	if _, ok := shardFailureTypes[ee.Type]; ok {
		return true
	}
	return strings.Contains(strings.ToLower(ee.Reason), "all shards failed")
}
