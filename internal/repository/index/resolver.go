package index

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/leadex/internal/domain"
)

// prober is the consumer interface for index existence checks (ISP).
type prober interface {
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Resolution lists the indices that exist and every name that was probed,
// both in priority order.
type Resolution struct {
	Resolved  []string
	Attempted []string
}

// Resolver finds which configured lead indices exist.
type Resolver struct {
	prober     prober
	candidates []string
	logger     *zap.Logger
}

// New creates a resolver. Candidates are primary, then fallbacks, then the
// hardcoded defaults, deduplicated.
func New(p prober, primary string, fallbacks []string, logger *zap.Logger) *Resolver {
	names := make([]string, 0, 1+len(fallbacks)+len(domain.DefaultIndices))
	names = append(names, primary)
	names = append(names, fallbacks...)
	names = append(names, domain.DefaultIndices...)

	seen := make(map[string]struct{}, len(names))
	candidates := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		candidates = append(candidates, n)
	}
	return &Resolver{prober: p, candidates: candidates, logger: logger}
}

// Candidates returns the names probed by Resolve.
func (r *Resolver) Candidates() []string { return r.candidates }

// Resolve probes every candidate. A failed probe is logged and the name
// skipped. When nothing exists it returns a *domain.IndexResolutionError.
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	res := Resolution{Attempted: make([]string, 0, len(r.candidates))}
	for _, name := range r.candidates {
		res.Attempted = append(res.Attempted, name)
		ok, err := r.prober.IndexExists(ctx, name)
		if err != nil {
			r.logger.Warn("Index probe failed", zap.String("index", name), zap.Error(err))
			continue
		}
		if ok {
			res.Resolved = append(res.Resolved, name)
		}
	}
	if len(res.Resolved) == 0 {
		return res, &domain.IndexResolutionError{Attempted: res.Attempted}
	}
	return res, nil
}

// Indices returns the existing indices in priority order.
func (r *Resolver) Indices(ctx context.Context) ([]string, error) {
	res, err := r.Resolve(ctx)
	return res.Resolved, err
}
