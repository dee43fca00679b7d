package field

import "sort"

// Elasticsearch field types that carry numbers.
var numericTypes = map[string]struct{}{
	"long": {}, "integer": {}, "short": {}, "byte": {}, "double": {}, "float": {},
	"half_float": {}, "scaled_float": {}, "unsigned_long": {},
}

// Field types that cannot be sorted on without fielddata.
var unsortableTypes = map[string]struct{}{
	"text": {}, "match_only_text": {}, "object": {}, "nested": {},
}

// Mapping is a flattened field name -> engine type lookup.
// A nil or empty Mapping means "no type information".
type Mapping map[string]string

// IsEmpty reports whether the mapping holds no type information.
func (m Mapping) IsEmpty() bool { return len(m) == 0 }

// Type returns the mapped type of name.
func (m Mapping) Type(name string) (string, bool) {
	t, ok := m[name]
	return t, ok
}

// Has reports whether name is mapped.
func (m Mapping) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// IsNumeric reports whether name is mapped to a numeric type.
func (m Mapping) IsNumeric(name string) bool {
	return IsNumericType(m[name])
}

// IsKeyword reports whether name is mapped as keyword.
func (m Mapping) IsKeyword(name string) bool {
	t := m[name]
	return t == "keyword" || t == "constant_keyword" || t == "wildcard"
}

// IsSortable reports whether name is mapped to a type that supports doc-value sorting.
func (m Mapping) IsSortable(name string) bool {
	t, ok := m[name]
	if !ok {
		return false
	}
	_, bad := unsortableTypes[t]
	return !bad
}

// Names returns the mapped field names in lexical order.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsNumericType reports whether t is one of the engine's numeric types.
func IsNumericType(t string) bool {
	_, ok := numericTypes[t]
	return ok
}

// Merge combines mappings; the first mapping that defines a field wins.
func Merge(ms ...Mapping) Mapping {
	out := make(Mapping)
	for _, m := range ms {
		for name, t := range m {
			if _, ok := out[name]; !ok {
				out[name] = t
			}
		}
	}
	return out
}
