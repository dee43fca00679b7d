package result

import "github.com/kailas-cloud/leadex/internal/domain/lead"

// Row is a single normalized hit with its resolved display columns.
type Row struct {
	Record  lead.Record
	Display map[string]string
}

// NewRow normalizes a raw source document and resolves its display columns.
// Engine metadata is attached under lead.DocIDKey and lead.IndexKey.
func NewRow(id, index string, source map[string]any) Row {
	rec := lead.Normalize(source)
	if id != "" {
		rec[lead.DocIDKey] = id
	}
	if index != "" {
		rec[lead.IndexKey] = index
	}
	return Row{Record: rec, Display: lead.Display(rec)}
}

// Page is one page of search results.
type Page struct {
	rows     []Row
	total    int64
	estimate bool
	offset   int
	limit    int
	indices  []string
}

// New creates a result page.
func New(rows []Row, total int64, estimate bool, offset, limit int, indices []string) Page {
	return Page{
		rows: rows, total: total, estimate: estimate,
		offset: offset, limit: limit, indices: indices,
	}
}

// Rows returns the page rows.
func (p *Page) Rows() []Row { return p.rows }

// Total returns the total hit count.
func (p *Page) Total() int64 { return p.total }

// TotalIsEstimate reports whether Total is a lower bound.
func (p *Page) TotalIsEstimate() bool { return p.estimate }

// Offset returns the page offset.
func (p *Page) Offset() int { return p.offset }

// Limit returns the page size.
func (p *Page) Limit() int { return p.limit }

// Indices returns the indices that were searched.
func (p *Page) Indices() []string { return p.indices }
