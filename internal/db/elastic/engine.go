// Package elastic implements db.SearchEngine over the official
// go-elasticsearch v8 client.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/leadex/internal/db"
)

// Compile-time check: Engine implements db.SearchEngine.
var _ db.SearchEngine = (*Engine)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addrs    []string
	Username string
	Password string
	APIKey   string
	// Transport overrides the HTTP transport (tests, custom TLS).
	Transport http.RoundTripper
}

// Engine is a search engine backed by Elasticsearch.
type Engine struct {
	client *elasticsearch.Client
}

// NewEngine creates an Elasticsearch-backed engine. It does not contact the cluster.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Engine{client: client}, nil
}

// Ping checks cluster connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: decodeError(res)}
	}
	return nil
}

// IndexExists reports whether the index (or alias) exists.
func (e *Engine) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := e.client.Indices.Exists([]string{name}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpIndexExists, Err: err}
	}
	defer closeBody(res)
	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.IsError():
		return false, &db.Error{Op: db.OpIndexExists, Err: decodeError(res)}
	}
	return true, nil
}

// GetMapping returns the raw mapping response for the index, keyed by
// concrete index name.
func (e *Engine) GetMapping(ctx context.Context, index string) (map[string]any, error) {
	res, err := e.client.Indices.GetMapping(
		e.client.Indices.GetMapping.WithContext(ctx),
		e.client.Indices.GetMapping.WithIndex(index),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpGetMapping, Err: err}
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil, &db.Error{Op: db.OpGetMapping, Err: db.ErrIndexNotFound}
	}
	if res.IsError() {
		return nil, &db.Error{Op: db.OpGetMapping, Err: decodeError(res)}
	}
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &db.Error{Op: db.OpGetMapping, Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}

// Search runs a query, opening a scroll cursor when q.Scroll is set.
func (e *Engine) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResponse, error) {
	body, err := encode(q.Body())
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	opts := []func(*esapi.SearchRequest){
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(q.Indices...),
		e.client.Search.WithBody(body),
	}
	if q.Scroll > 0 {
		opts = append(opts, e.client.Search.WithScroll(q.Scroll))
	}
	res, err := e.client.Search(opts...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return decodeSearch(db.OpSearch, res)
}

// Count returns the exact number of documents matching query.
func (e *Engine) Count(ctx context.Context, indices []string, query map[string]any) (int64, error) {
	body, err := encode(map[string]any{"query": query})
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	res, err := e.client.Count(
		e.client.Count.WithContext(ctx),
		e.client.Count.WithIndex(indices...),
		e.client.Count.WithBody(body),
	)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	defer closeBody(res)
	if res.IsError() {
		return 0, &db.Error{Op: db.OpCount, Err: decodeError(res)}
	}
	var out struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: fmt.Errorf("decode: %w", err)}
	}
	return out.Count, nil
}

// Scroll fetches the next batch of an open cursor, extending its keep-alive.
func (e *Engine) Scroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*db.SearchResponse, error) {
	res, err := e.client.Scroll(
		e.client.Scroll.WithContext(ctx),
		e.client.Scroll.WithScrollID(scrollID),
		e.client.Scroll.WithScroll(keepAlive),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpScroll, Err: err}
	}
	return decodeSearch(db.OpScroll, res)
}

// ClearScroll releases a cursor. An already expired cursor is not an error.
func (e *Engine) ClearScroll(ctx context.Context, scrollID string) error {
	res, err := e.client.ClearScroll(
		e.client.ClearScroll.WithContext(ctx),
		e.client.ClearScroll.WithScrollID(scrollID),
	)
	if err != nil {
		return &db.Error{Op: db.OpClearScroll, Err: err}
	}
	defer closeBody(res)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return &db.Error{Op: db.OpClearScroll, Err: decodeError(res)}
	}
	return nil
}

type searchBody struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total *struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			ID     string         `json:"_id"`
			Index  string         `json:"_index"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeSearch(op string, res *esapi.Response) (*db.SearchResponse, error) {
	defer closeBody(res)
	if res.IsError() {
		return nil, &db.Error{Op: op, Err: decodeError(res)}
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var body searchBody
	if err := dec.Decode(&body); err != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}

	out := &db.SearchResponse{
		ScrollID:      body.ScrollID,
		TotalRelation: db.RelationEq,
		Hits:          make([]db.Hit, 0, len(body.Hits.Hits)),
	}
	if t := body.Hits.Total; t != nil {
		out.Total = t.Value
		if t.Relation != "" {
			out.TotalRelation = t.Relation
		}
	}
	for _, h := range body.Hits.Hits {
		out.Hits = append(out.Hits, db.Hit{ID: h.ID, Index: h.Index, Source: h.Source})
	}
	return out, nil
}

// decodeError extracts type and reason from an engine error body. The
// error field is an object on most endpoints and a plain string on some.
func decodeError(res *esapi.Response) *db.EngineError {
	ee := &db.EngineError{Status: res.StatusCode}
	raw, err := io.ReadAll(res.Body)
	if err != nil || len(raw) == 0 {
		ee.Reason = http.StatusText(res.StatusCode)
		return ee
	}

	var obj struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj.Error) == 0 {
		ee.Reason = string(raw)
		return ee
	}

	var detail struct {
		Type      string `json:"type"`
		Reason    string `json:"reason"`
		RootCause []struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"root_cause"`
	}
	if err := json.Unmarshal(obj.Error, &detail); err != nil {
		var s string
		if json.Unmarshal(obj.Error, &s) == nil {
			ee.Reason = s
			return ee
		}
		ee.Reason = string(obj.Error)
		return ee
	}
	ee.Type = detail.Type
	ee.Reason = detail.Reason
	if len(detail.RootCause) > 0 {
		if ee.Type == "" {
			ee.Type = detail.RootCause[0].Type
		}
		if ee.Reason == "" || ee.Reason == "all shards failed" {
			if rc := detail.RootCause[0].Reason; rc != "" {
				ee.Reason = rc
			}
		}
	}
	return ee
}

func encode(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return &buf, nil
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}
