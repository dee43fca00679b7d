package db

import "time"

// SearchQuery is the input for a search or for opening a scroll.
type SearchQuery struct {
	Indices        []string
	Query          map[string]any
	From           int
	Size           int
	Sort           []map[string]any
	TrackTotalHits bool
	// Scroll opens a server-side cursor kept alive for this long when non-zero.
	Scroll time.Duration
}

// Body renders the request body.
func (q *SearchQuery) Body() map[string]any {
	body := map[string]any{"query": q.Query}
	if q.Scroll == 0 {
		body["from"] = q.From
	}
	body["size"] = q.Size
	if len(q.Sort) > 0 {
		body["sort"] = q.Sort
	}
	if q.TrackTotalHits {
		body["track_total_hits"] = true
	}
	return body
}

// Total relation values.
const (
	RelationEq  = "eq"
	RelationGte = "gte"
)

// SearchResponse is the decoded engine response.
type SearchResponse struct {
	ScrollID      string
	Total         int64
	TotalRelation string
	Hits          []Hit
}

// Hit is a single document hit.
type Hit struct {
	ID     string
	Index  string
	Source map[string]any
}
