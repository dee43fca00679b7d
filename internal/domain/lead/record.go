// Package lead holds the canonical lead record shape and the column
// resolver shared by the search response and the CSV export.
package lead

import (
	"sort"
	"strings"
)

// Provenance groups.
const (
	GroupMerged = "merged"
	GroupLinked = "linked"
)

// Top-level keys set from engine hit metadata.
const (
	DocIDKey = "_id"
	IndexKey = "_index"
)

// Groups lists the provenance groups in folding order.
var Groups = []string{GroupMerged, GroupLinked}

// crossRefIDs keep their prefixed spelling at the top level.
var crossRefIDs = map[string]struct{}{
	"merged_id": {},
	"linked_id": {},
}

// Record is a lead document in canonical nested shape.
type Record map[string]any

// Normalize folds group-prefixed keys (merged_X, linked_X) into nested
// merged/linked objects. Values already nested win over folded ones, and
// top-level keys fold in lexical order. The input is never modified, and
// normalizing a normalized record returns an equal record.
func Normalize(doc map[string]any) Record {
	out := make(Record, len(doc))
	groups := make(map[string]map[string]any, len(Groups))

	for _, g := range Groups {
		v, present := doc[g]
		if !present {
			continue
		}
		nested, ok := v.(map[string]any)
		if !ok {
			continue
		}
		dst := make(map[string]any, len(nested))
		var residual []string
		for k, val := range nested {
			if rest, found := strings.CutPrefix(k, g+"_"); found && rest != "" {
				residual = append(residual, k)
				continue
			}
			dst[k] = val
		}
		sort.Strings(residual)
		for _, k := range residual {
			setOnce(dst, stripGroup(k, g), nested[k])
		}
		groups[g] = dst
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, isGroup := groups[k]; isGroup {
			continue
		}
		if _, keep := crossRefIDs[k]; keep {
			out[k] = doc[k]
			continue
		}
		g, name, ok := splitPrefixed(k)
		if !ok || blocked(doc, g) {
			out[k] = doc[k]
			continue
		}
		dst, exists := groups[g]
		if !exists {
			dst = make(map[string]any)
			groups[g] = dst
		}
		setOnce(dst, name, doc[k])
	}

	for g, dst := range groups {
		out[g] = dst
	}
	return out
}

// Group returns the nested object for g, or nil.
func (r Record) Group(g string) map[string]any {
	m, _ := r[g].(map[string]any)
	return m
}

// ID returns the engine document id, falling back to the cross-reference ids.
func (r Record) ID() string {
	for _, k := range []string{DocIDKey, "es_id", "linked_id", "merged_id"} {
		if s := Format(r[k]); s != "" {
			return s
		}
	}
	return ""
}

// blocked reports whether the group key holds something other than an
// object, in which case prefixed keys are left alone.
func blocked(doc map[string]any, g string) bool {
	v, ok := doc[g]
	if !ok {
		return false
	}
	_, isMap := v.(map[string]any)
	return !isMap
}

func splitPrefixed(k string) (group, name string, ok bool) {
	for _, g := range Groups {
		if rest, found := strings.CutPrefix(k, g+"_"); found && rest != "" {
			return g, stripGroup(rest, g), true
		}
	}
	return "", "", false
}

// stripGroup removes every leading "<g>_", keeping at least one character:
// "merged_merged_x" -> "x".
func stripGroup(k, g string) string {
	for {
		rest, found := strings.CutPrefix(k, g+"_")
		if !found || rest == "" {
			return k
		}
		k = rest
	}
}

func setOnce(m map[string]any, k string, v any) {
	if _, exists := m[k]; !exists {
		m[k] = v
	}
}
