package query

import (
	"encoding/json"
	"strings"
)

// Clause is one node of the engine's JSON query DSL.
type Clause = map[string]any

// MatchAll matches every document.
func MatchAll() Clause {
	return Clause{"match_all": Clause{}}
}

// Term is an exact term clause. Strings match case-insensitively.
func Term(field string, value any) Clause {
	if s, ok := value.(string); ok {
		return Clause{"term": Clause{field: Clause{"value": s, "case_insensitive": true}}}
	}
	return Clause{"term": Clause{field: Clause{"value": value}}}
}

// MatchPhrase is an analyzed phrase clause with the given slop.
func MatchPhrase(field, text string, slop int) Clause {
	body := Clause{"query": text}
	if slop > 0 {
		body["slop"] = slop
	}
	return Clause{"match_phrase": Clause{field: body}}
}

// Wildcard is a case-insensitive "*value*" containment clause.
func Wildcard(field, value string) Clause {
	return Clause{"wildcard": Clause{field: Clause{
		"value":            "*" + escapeWildcard(value) + "*",
		"case_insensitive": true,
	}}}
}

// Exists requires the field to hold a value.
func Exists(field string) Clause {
	return Clause{"exists": Clause{"field": field}}
}

// Range is an inclusive range clause; nil bounds are omitted.
func Range(field string, gte, lte any) Clause {
	body := Clause{}
	if gte != nil {
		body["gte"] = gte
	}
	if lte != nil {
		body["lte"] = lte
	}
	return Clause{"range": Clause{field: body}}
}

// AnyOf ORs clauses and requires at least one to match.
// A single clause is returned unwrapped; no clauses yields nil.
func AnyOf(clauses []Clause) Clause {
	clauses = Dedupe(clauses)
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	}
	return Clause{"bool": Clause{"should": clauses, "minimum_should_match": 1}}
}

// NoneOf excludes documents matching any clause.
func NoneOf(clauses []Clause) Clause {
	clauses = Dedupe(clauses)
	if len(clauses) == 0 {
		return nil
	}
	return Clause{"bool": Clause{"must_not": clauses}}
}

// Dedupe drops structurally equal clauses, keeping the first occurrence.
func Dedupe(clauses []Clause) []Clause {
	out := make([]Clause, 0, len(clauses))
	seen := make(map[string]struct{}, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		key, err := json.Marshal(c)
		if err != nil {
			out = append(out, c)
			continue
		}
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		out = append(out, c)
	}
	return out
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
