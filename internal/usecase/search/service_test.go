package search

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain"
	"github.com/kailas-cloud/leadex/internal/domain/search/field"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
)

// --- Mocks ---

type mockIndices struct {
	indices []string
	err     error
}

func (m *mockIndices) Indices(_ context.Context) ([]string, error) {
	return m.indices, m.err
}

type mockMappings struct {
	mapping field.Mapping
}

func (m *mockMappings) Mapping(_ context.Context, _ []string) field.Mapping {
	return m.mapping
}

type mockEngine struct {
	searchFn func(q *db.SearchQuery) (*db.SearchResponse, error)
	countFn  func(indices []string, query map[string]any) (int64, error)
	queries  []db.SearchQuery
	counts   int
}

func (m *mockEngine) Search(_ context.Context, q *db.SearchQuery) (*db.SearchResponse, error) {
	m.queries = append(m.queries, *q)
	if m.searchFn != nil {
		return m.searchFn(q)
	}
	return &db.SearchResponse{TotalRelation: db.RelationEq}, nil
}

func (m *mockEngine) Count(_ context.Context, indices []string, query map[string]any) (int64, error) {
	m.counts++
	if m.countFn != nil {
		return m.countFn(indices, query)
	}
	return 0, errors.New("count not configured")
}

var sortableMapping = field.Mapping{
	"updated_at":                             "date",
	"merged.normalized_company_name":         "text",
	"merged.normalized_company_name.keyword": "keyword",
}

func newTestService(e *mockEngine) *Service {
	return New(
		&mockIndices{indices: []string{"leads"}},
		&mockMappings{mapping: sortableMapping},
		e, nil,
	)
}

func shardErr() error {
	return &db.Error{Op: db.OpSearch, Err: &db.EngineError{
		Status: 400, Type: "search_phase_execution_exception", Reason: "all shards failed",
	}}
}

// --- Tests ---

func TestSearch_Success(t *testing.T) {
	e := &mockEngine{searchFn: func(q *db.SearchQuery) (*db.SearchResponse, error) {
		return &db.SearchResponse{
			Total: 2, TotalRelation: db.RelationEq,
			Hits: []db.Hit{
				{ID: "a", Index: "leads", Source: map[string]any{"merged_Company": "Acme"}},
				{ID: "b", Index: "leads", Source: map[string]any{"linked_Job_title": "CEO"}},
			},
		}, nil
	}}
	svc := newTestService(e)

	page, err := svc.Search(context.Background(), filter.FromValues(nil), Params{Offset: -5, SortField: "updated_at"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total() != 2 || page.TotalIsEstimate() {
		t.Errorf("total = %d estimate=%v", page.Total(), page.TotalIsEstimate())
	}
	if page.Offset() != 0 || page.Limit() != DefaultPageSize {
		t.Errorf("offset/limit = %d/%d", page.Offset(), page.Limit())
	}
	rows := page.Rows()
	if len(rows) != 2 || rows[0].Display["company"] != "Acme" || rows[1].Display["job_title"] != "CEO" {
		t.Errorf("rows = %+v", rows)
	}

	q := e.queries[0]
	if !q.TrackTotalHits || q.From != 0 || q.Size != DefaultPageSize {
		t.Errorf("query = %+v", q)
	}
	if len(q.Sort) != 1 || q.Sort[0]["updated_at"] == nil {
		t.Errorf("sort = %v", q.Sort)
	}
	if _, ok := q.Query["match_all"]; !ok {
		t.Errorf("empty filter should match all, got %v", q.Query)
	}
	if e.counts != 0 {
		t.Errorf("count should not run for exact totals")
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	e := &mockEngine{}
	svc := newTestService(e).WithPageSizes(10, 50)

	page, err := svc.Search(context.Background(), filter.FromValues(nil), Params{Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit() != 50 || e.queries[0].Size != 50 {
		t.Errorf("limit = %d size = %d, want 50", page.Limit(), e.queries[0].Size)
	}

	page, _ = svc.Search(context.Background(), filter.FromValues(nil), Params{})
	if page.Limit() != 10 {
		t.Errorf("default limit = %d, want 10", page.Limit())
	}
}

func TestSearch_NoIndex(t *testing.T) {
	svc := New(
		&mockIndices{err: &domain.IndexResolutionError{Attempted: []string{"leads", "leads_merged"}}},
		&mockMappings{}, &mockEngine{}, nil,
	)
	_, err := svc.Search(context.Background(), filter.FromValues(nil), Params{})
	if !errors.Is(err, domain.ErrNoIndex) {
		t.Fatalf("expected ErrNoIndex, got %v", err)
	}
}

func TestSearch_RetriesOnceWithoutSort(t *testing.T) {
	e := &mockEngine{searchFn: func(q *db.SearchQuery) (*db.SearchResponse, error) {
		if len(q.Sort) > 0 {
			return nil, shardErr()
		}
		return &db.SearchResponse{Total: 1, TotalRelation: db.RelationEq, Hits: []db.Hit{{ID: "x"}}}, nil
	}}
	svc := newTestService(e)

	page, err := svc.Search(context.Background(), filter.FromValues(nil), Params{SortField: "updated_at"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.queries) != 2 {
		t.Fatalf("engine calls = %d, want 2", len(e.queries))
	}
	if len(e.queries[0].Sort) == 0 || len(e.queries[1].Sort) != 0 {
		t.Errorf("expected sorted then unsorted, got %v / %v", e.queries[0].Sort, e.queries[1].Sort)
	}
	if len(page.Rows()) != 1 {
		t.Errorf("rows = %d", len(page.Rows()))
	}
}

func TestSearch_SecondFailureIsShardFailure(t *testing.T) {
	e := &mockEngine{searchFn: func(*db.SearchQuery) (*db.SearchResponse, error) {
		return nil, shardErr()
	}}
	svc := newTestService(e)

	_, err := svc.Search(context.Background(), filter.FromValues(nil), Params{SortField: "updated_at"})
	if len(e.queries) != 2 {
		t.Fatalf("engine calls = %d, want exactly 2", len(e.queries))
	}
	if !errors.Is(err, domain.ErrShardFailure) {
		t.Fatalf("expected ErrShardFailure, got %v", err)
	}
	if errors.Is(err, domain.ErrSearchFailed) {
		t.Error("shard failure must be distinguishable from generic failure")
	}
	var se *domain.SearchError
	if !errors.As(err, &se) || se.Type != "search_phase_execution_exception" {
		t.Errorf("SearchError = %+v", se)
	}
}

func TestSearch_SecondFailureIsGeneric(t *testing.T) {
	e := &mockEngine{searchFn: func(*db.SearchQuery) (*db.SearchResponse, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: errors.New("connection refused")}
	}}
	svc := newTestService(e)

	_, err := svc.Search(context.Background(), filter.FromValues(nil), Params{SortField: "updated_at"})
	if len(e.queries) != 2 {
		t.Fatalf("engine calls = %d, want 2", len(e.queries))
	}
	if !errors.Is(err, domain.ErrSearchFailed) || errors.Is(err, domain.ErrShardFailure) {
		t.Fatalf("expected ErrSearchFailed only, got %v", err)
	}
}

func TestSearch_NoSortNoRetry(t *testing.T) {
	e := &mockEngine{searchFn: func(*db.SearchQuery) (*db.SearchResponse, error) {
		return nil, shardErr()
	}}
	svc := New(&mockIndices{indices: []string{"leads"}}, &mockMappings{}, e, nil)

	_, err := svc.Search(context.Background(), filter.FromValues(nil), Params{SortField: "updated_at"})
	if len(e.queries) != 1 {
		t.Fatalf("engine calls = %d, want 1 (no sort resolvable without mapping)", len(e.queries))
	}
	if !errors.Is(err, domain.ErrShardFailure) {
		t.Errorf("expected ErrShardFailure, got %v", err)
	}
}

func TestSearch_CountFallback(t *testing.T) {
	e := &mockEngine{
		searchFn: func(*db.SearchQuery) (*db.SearchResponse, error) {
			return &db.SearchResponse{Total: 10000, TotalRelation: db.RelationGte}, nil
		},
		countFn: func([]string, map[string]any) (int64, error) { return 123456, nil },
	}
	page, err := newTestService(e).Search(context.Background(), filter.FromValues(nil), Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total() != 123456 || page.TotalIsEstimate() {
		t.Errorf("total = %d estimate=%v", page.Total(), page.TotalIsEstimate())
	}
}

func TestSearch_CountFallbackFailureKeepsEstimate(t *testing.T) {
	e := &mockEngine{searchFn: func(*db.SearchQuery) (*db.SearchResponse, error) {
		return &db.SearchResponse{Total: 10000, TotalRelation: db.RelationGte}, nil
	}}
	page, err := newTestService(e).Search(context.Background(), filter.FromValues(nil), Params{})
	if err != nil {
		t.Fatalf("count failure must not fail the search: %v", err)
	}
	if page.Total() != 10000 || !page.TotalIsEstimate() {
		t.Errorf("total = %d estimate=%v", page.Total(), page.TotalIsEstimate())
	}
	if e.counts != 1 {
		t.Errorf("counts = %d", e.counts)
	}
}

func TestPrepare_ExactCompanyFilter(t *testing.T) {
	svc := newTestService(&mockEngine{})
	req := filter.FromValues(url.Values{"company_name": {"Acme"}, "exact": {"1"}})

	plan, err := svc.Prepare(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := plan.Query["bool"].(map[string]any)
	if !ok {
		t.Fatalf("query = %v", plan.Query)
	}
	if _, hasMust := b["must"]; hasMust {
		t.Error("exact filter must not produce must")
	}
	if _, hasFilter := b["filter"]; !hasFilter {
		t.Error("exact filter must produce filter")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"phase", &db.EngineError{Type: "search_phase_execution_exception"}, domain.ErrShardFailure},
		{"query shard", &db.EngineError{Type: "query_shard_exception"}, domain.ErrShardFailure},
		{"reason only", &db.EngineError{Type: "x", Reason: "All shards failed"}, domain.ErrShardFailure},
		{"parse", &db.EngineError{Type: "parsing_exception", Reason: "bad"}, domain.ErrSearchFailed},
		{"transport", errors.New("eof"), domain.ErrSearchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classify = %v, want %v", got, tt.want)
			}
		})
	}
}
