package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

const (
	unknownSourceName   = "Unknown Source"
	unknownCategoryName = "Unknown"
)

// Resolver maps display names to stable identifiers, creating lookup entities
// on first sight. Its caches are instance-scoped: the ingestor builds a fresh
// Resolver per run, so two runs (or tests) never share state.
type Resolver struct {
	store      ports.LookupStore
	sources    map[string]int64
	categories map[string]int64
	primed     bool
}

// NewResolver builds a resolver with empty in-run caches.
func NewResolver(store ports.LookupStore) *Resolver {
	return &Resolver{
		store:      store,
		sources:    map[string]int64{},
		categories: map[string]int64{},
	}
}

// SourceID resolves a source display name, trimming whitespace and falling
// back to "Unknown Source" for blank names.
func (r *Resolver) SourceID(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = unknownSourceName
	}
	return r.resolve(ctx, r.sources, name, r.store.GetOrCreateSource)
}

// CategoryID resolves a classifier label the same way.
func (r *Resolver) CategoryID(ctx context.Context, label string) (int64, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = unknownCategoryName
	}
	return r.resolve(ctx, r.categories, label, r.store.GetOrCreateCategory)
}

func (r *Resolver) resolve(ctx context.Context, cache map[string]int64, name string,
	create func(context.Context, string) (int64, error)) (int64, error) {
	if err := r.prime(ctx); err != nil {
		return 0, err
	}

	if id, ok := cache[name]; ok {
		return id, nil
	}

	id, err := create(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("get or create %q: %w", name, err)
	}
	cache[name] = id

	return id, nil
}

// prime loads both lookup tables once per run, so repeat names within a run
// never hit the store again.
func (r *Resolver) prime(ctx context.Context) error {
	if r.primed {
		return nil
	}

	sources, err := r.store.Sources(ctx)
	if err != nil {
		return fmt.Errorf("prime sources: %w", err)
	}
	for _, src := range sources {
		r.sources[src.Name] = src.ID
	}

	categories, err := r.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("prime categories: %w", err)
	}
	for _, cat := range categories {
		r.categories[cat.Name] = cat.ID
	}

	r.primed = true

	return nil
}
