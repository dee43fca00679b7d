package mapping

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/domain/search/field"
)

// fetcher is the consumer interface for raw mapping retrieval (ISP).
type fetcher interface {
	GetMapping(ctx context.Context, index string) (map[string]any, error)
}

// Introspector reads and flattens index mappings.
type Introspector struct {
	fetcher    fetcher
	cache      *expirable.LRU[string, field.Mapping]
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an uncached introspector.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); nil disables it.
func New(f fetcher, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Introspector {
	return &Introspector{fetcher: f, cacheTotal: cacheTotal, logger: logger}
}

// WithCache fronts the introspector with a TTL cache. ttl <= 0 keeps it uncached.
func (i *Introspector) WithCache(size int, ttl time.Duration) *Introspector {
	if ttl <= 0 {
		return i
	}
	if size <= 0 {
		size = 64
	}
	i.cache = expirable.NewLRU[string, field.Mapping](size, nil, ttl)
	return i
}

// Mapping returns the merged field mapping of indices. Fetch failures are
// logged and contribute nothing; the first index wins on conflicting types.
func (i *Introspector) Mapping(ctx context.Context, indices []string) field.Mapping {
	key := strings.Join(indices, ",")
	if i.cache != nil {
		if m, ok := i.cache.Get(key); ok {
			i.inc("hit")
			return m
		}
		i.inc("miss")
	}

	parts := make([]field.Mapping, 0, len(indices))
	for _, idx := range indices {
		raw, err := i.fetcher.GetMapping(ctx, idx)
		if err != nil {
			i.logger.Warn("Mapping fetch failed", zap.String("index", idx), zap.Error(err))
			continue
		}
		parts = append(parts, Parse(raw))
	}
	m := field.Merge(parts...)

	if i.cache != nil && !m.IsEmpty() {
		i.cache.Add(key, m)
	}
	return m
}

func (i *Introspector) inc(result string) {
	if i.cacheTotal != nil {
		i.cacheTotal.WithLabelValues(result).Inc()
	}
}

// Parse flattens a get-mapping response. Entries are keyed by concrete
// index name and merged in lexical order.
func Parse(raw map[string]any) field.Mapping {
	if props := properties(raw); props != nil {
		out := make(field.Mapping)
		flatten(props, "", out)
		return out
	}

	names := sortedKeys(raw)
	parts := make([]field.Mapping, 0, len(names))
	for _, name := range names {
		entry, ok := raw[name].(map[string]any)
		if !ok {
			continue
		}
		props := properties(entry)
		if props == nil {
			continue
		}
		out := make(field.Mapping)
		flatten(props, "", out)
		parts = append(parts, out)
	}
	return field.Merge(parts...)
}

// properties locates the root properties object. It accepts the entry
// itself, a "mappings" wrapper, the legacy "_doc" type level, or the
// first nested key that holds properties.
func properties(entry map[string]any) map[string]any {
	if m, ok := entry["mappings"].(map[string]any); ok {
		entry = m
	}
	if p, ok := entry["properties"].(map[string]any); ok {
		return p
	}
	if doc, ok := entry["_doc"].(map[string]any); ok {
		if p, ok := doc["properties"].(map[string]any); ok {
			return p
		}
	}
	for _, k := range sortedKeys(entry) {
		nested, ok := entry[k].(map[string]any)
		if !ok {
			continue
		}
		if p, ok := nested["properties"].(map[string]any); ok {
			return p
		}
	}
	return nil
}

func flatten(props map[string]any, prefix string, out field.Mapping) {
	for name, v := range props {
		def, ok := v.(map[string]any)
		if !ok {
			continue
		}
		path := prefix + name
		sub, hasProps := def["properties"].(map[string]any)
		if t, ok := def["type"].(string); ok {
			out[path] = t
		} else if hasProps {
			out[path] = "object"
		}
		if hasProps {
			flatten(sub, path+".", out)
		}
		if fields, ok := def["fields"].(map[string]any); ok {
			for fname, fv := range fields {
				fdef, ok := fv.(map[string]any)
				if !ok {
					continue
				}
				if t, ok := fdef["type"].(string); ok {
					out[path+"."+fname] = t
				}
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
