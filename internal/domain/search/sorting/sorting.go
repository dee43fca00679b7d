// Package sorting picks a sort field the index mapping can actually serve.
package sorting

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/leadex/internal/domain/search/field"
)

// Direction is a sort order.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

var allowedField = regexp.MustCompile(`^[\w.@-]+$`)

// TimestampFallbacks are tried in order when the caller gives no usable sort field.
var TimestampFallbacks = []string{
	"updated_at", "@timestamp", "created_at", "merged.updated_at", "linked.updated_at", "indexed_at",
}

// IdentifierFallbacks are tried after the timestamp fallbacks.
var IdentifierFallbacks = []string{"linked_id", "merged_id", "es_id"}

// Sort is a resolved sort instruction. The zero value means "no sort".
type Sort struct {
	Field     string
	Direction Direction
	Fallback  bool
}

// IsZero reports whether no sort was resolved.
func (s Sort) IsZero() bool { return s.Field == "" }

// Clauses renders the sort for the engine request body; nil for no sort.
func (s Sort) Clauses() []map[string]any {
	if s.IsZero() {
		return nil
	}
	return []map[string]any{{s.Field: map[string]any{"order": string(s.Direction)}}}
}

// ParseDirection maps user input to a Direction, defaulting to Desc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "asc") {
		return Asc
	}
	return Desc
}

// Resolve validates the requested field against the mapping and falls back
// to a mapping-confirmed timestamp, then identifier. It never fails.
func Resolve(mapping field.Mapping, requested, direction string) Sort {
	requested = strings.TrimSpace(requested)
	if requested != "" && allowedField.MatchString(requested) {
		if f, ok := confirm(mapping, requested); ok {
			return Sort{Field: f, Direction: ParseDirection(direction)}
		}
	}
	for _, group := range [][]string{TimestampFallbacks, IdentifierFallbacks} {
		for _, name := range group {
			if f, ok := confirm(mapping, name); ok {
				return Sort{Field: f, Direction: Desc, Fallback: true}
			}
		}
	}
	return Sort{}
}

// confirm finds a sortable spelling of name in the mapping. Text fields
// resolve to their .keyword sub-field when one is mapped.
func confirm(mapping field.Mapping, name string) (string, bool) {
	if mapping.IsEmpty() {
		return "", false
	}
	var textHit string
	for _, f := range field.Expand([]string{name}) {
		if mapping.IsSortable(f) {
			return f, true
		}
		if textHit == "" && mapping.Has(f) {
			textHit = f
		}
	}
	if textHit != "" {
		if kw := textHit + field.KeywordSuffix; mapping.IsSortable(kw) {
			return kw, true
		}
	}
	return "", false
}
