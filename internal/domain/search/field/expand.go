package field

import "strings"

// KeywordSuffix is the conventional name of the un-analyzed multi-field.
const KeywordSuffix = ".keyword"

// groupPrefixes are provenance groups whose flat spelling uses "<group>_" instead of "<group>.".
var groupPrefixes = []string{"merged", "linked"}

// Expand returns the deduplicated superset of names with every spelling the
// lead indices use for the same attribute: dot/underscore substitution, a
// lowercased form and a .keyword sub-field for each produced member.
// The input order is preserved and Expand(Expand(x)) == Expand(x).
func Expand(names []string) []string {
	out := make([]string, 0, len(names)*6)
	seen := make(map[string]struct{}, len(names)*6)
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	var bases []string
	baseSeen := make(map[string]struct{}, len(names)*4)
	queue := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		add(n)
		queue = append(queue, n)
	}

	for len(queue) > 0 {
		b := trimKeyword(queue[0])
		queue = queue[1:]
		if b == "" {
			continue
		}
		if _, ok := baseSeen[b]; ok {
			continue
		}
		baseSeen[b] = struct{}{}
		bases = append(bases, b)
		queue = append(queue, underscored(b), groupDotted(b), strings.ToLower(b))
	}

	for _, b := range bases {
		add(b)
	}
	for _, b := range bases {
		add(b + KeywordSuffix)
	}
	return out
}

// trimKeyword strips every trailing .keyword, in any case, so that
// "x.keyword.keyword" and "x.KEYWORD" share the base "x".
func trimKeyword(s string) string {
	for len(s) >= len(KeywordSuffix) && strings.EqualFold(s[len(s)-len(KeywordSuffix):], KeywordSuffix) {
		s = s[:len(s)-len(KeywordSuffix)]
	}
	return s
}

// Underscored replaces every dot with an underscore: "merged.company" -> "merged_company".
func underscored(s string) string {
	return strings.ReplaceAll(s, ".", "_")
}

// groupDotted turns a flat group prefix back into a nested path: "merged_company" -> "merged.company".
func groupDotted(s string) string {
	for _, g := range groupPrefixes {
		if len(s) > len(g)+1 && strings.EqualFold(s[:len(g)], g) && s[len(g)] == '_' {
			return s[:len(g)] + "." + s[len(g)+1:]
		}
	}
	return s
}

// IsKeywordVariant reports whether name addresses a .keyword sub-field.
func IsKeywordVariant(name string) bool {
	return strings.HasSuffix(name, KeywordSuffix)
}
