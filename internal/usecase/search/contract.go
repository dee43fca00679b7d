package search

import (
	"context"

	"github.com/kailas-cloud/leadex/internal/db"
	"github.com/kailas-cloud/leadex/internal/domain/search/field"
)

// IndexResolver lists the lead indices that currently exist.
type IndexResolver interface {
	Indices(ctx context.Context) ([]string, error)
}

// MappingReader returns the merged field mapping of indices.
type MappingReader interface {
	Mapping(ctx context.Context, indices []string) field.Mapping
}

// Engine runs queries against the search backend.
type Engine interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResponse, error)
	Count(ctx context.Context, indices []string, query map[string]any) (int64, error)
}
