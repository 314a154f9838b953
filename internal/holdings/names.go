package holdings

import (
	"context"
	"log"
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/cache"
	"github.com/fortestingfmm-hub/fund-monitor/internal/collector"
)

// NameResolver finds a fund's display name. Curated overrides win, then
// previously resolved names, then the name feed. It never fails: an unknown
// fund is labelled "Fund <code>".
type NameResolver struct {
	Overrides map[string]string
	Source    collector.NameSource

	cache *cache.Cache[string]
}

// NewNameResolver creates a resolver; source may be nil.
func NewNameResolver(overrides map[string]string, source collector.NameSource, ttl time.Duration) *NameResolver {
	return &NameResolver{
		Overrides: overrides,
		Source:    source,
		cache:     cache.New[string](ttl),
	}
}

func (r *NameResolver) Resolve(ctx context.Context, fundCode string) string {
	if name, ok := r.Overrides[fundCode]; ok && name != "" {
		return name
	}
	if r.Source == nil {
		return fallbackName(fundCode)
	}
	name, err := r.cache.GetOrLoad(ctx, fundCode, func(ctx context.Context) (string, error) {
		return r.Source.FetchFundName(ctx, fundCode)
	})
	if err != nil {
		log.Printf("[WARN] Fund name lookup for %s failed: %v", fundCode, err)
		return fallbackName(fundCode)
	}
	return name
}

func fallbackName(fundCode string) string {
	return "Fund " + fundCode
}
