package leadex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
)

// SearchOption configures a single Search call.
type SearchOption func(*searchuc.Params)

// Limit sets the page size. Values above the configured maximum are clamped.
func Limit(n int) SearchOption {
	return func(p *searchuc.Params) { p.Limit = n }
}

// Offset sets the number of leads to skip.
func Offset(n int) SearchOption {
	return func(p *searchuc.Params) { p.Offset = n }
}

// SortBy orders results by a UI sort key or a mapped field. dir is "asc"
// or "desc"; anything else means "asc". Unknown fields fall back to
// relevance order.
func SortBy(field, dir string) SearchOption {
	return func(p *searchuc.Params) {
		p.SortField = field
		p.SortDir = dir
	}
}

// Search returns one page of leads matching filters.
func (c *Client) Search(ctx context.Context, filters Filters, opts ...SearchOption) (*SearchPage, error) {
	start := time.Now()

	var p searchuc.Params
	for _, o := range opts {
		o(&p)
	}

	page, err := c.searchSvc.Search(ctx, filter.FromMap(filters), p)
	c.obs.observe("search", start, err, "filters", len(filters), "limit", p.Limit, "offset", p.Offset)
	if err != nil {
		return nil, fmt.Errorf("leadex: search: %w", err)
	}

	out := pageFromDomain(&page)
	c.obs.leadsReturned(len(out.Leads))
	return out, nil
}
