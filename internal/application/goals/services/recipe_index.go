package services

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/metrics"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// RecipeIndexStats reports cache usage of a RecipeIndex session
type RecipeIndexStats struct {
	SessionID   string
	Hits        int64
	Misses      int64
	CachedItems int
}

// RecipeIndex resolves the canonical producing recipe of an item and the
// flattened ingredient list of a recipe, caching both for the session.
//
// Registry data is static within a session, so misses are cached as well.
// Population is idempotent: two goroutines racing on the same key compute
// the same value from the same registry.
type RecipeIndex struct {
	mu        sync.RWMutex
	registry  goods.ItemRegistry
	sessionID string

	// A nil recipe marks a cached miss
	byProduct map[goods.ItemType]*goods.Recipe
	flattened map[*goods.Recipe][]goods.ThingCount

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRecipeIndex creates an index over the registry and starts a session
func NewRecipeIndex(registry goods.ItemRegistry) *RecipeIndex {
	idx := &RecipeIndex{}
	idx.Reset(registry)
	return idx
}

// Reset starts a new session with empty caches. A nil registry keeps the current one.
func (idx *RecipeIndex) Reset(registry goods.ItemRegistry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if registry != nil {
		idx.registry = registry
	}
	idx.sessionID = uuid.New().String()
	idx.byProduct = make(map[goods.ItemType]*goods.Recipe)
	idx.flattened = make(map[*goods.Recipe][]goods.ThingCount)
	idx.hits.Store(0)
	idx.misses.Store(0)
}

// Registry returns the registry of the current session
func (idx *RecipeIndex) Registry() goods.ItemRegistry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.registry
}

// SessionID identifies the current cache session
func (idx *RecipeIndex) SessionID() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.sessionID
}

// RecipeFor returns the first recipe in registry order whose products contain the item
func (idx *RecipeIndex) RecipeFor(product goods.ItemType) (*goods.Recipe, bool) {
	idx.mu.RLock()
	recipe, cached := idx.byProduct[product]
	registry := idx.registry
	idx.mu.RUnlock()

	if cached {
		idx.hits.Add(1)
		metrics.RecordRecipeLookup(true)
		return recipe, recipe != nil
	}

	idx.misses.Add(1)
	metrics.RecordRecipeLookup(false)

	recipe = findProducer(registry, product)

	idx.mu.Lock()
	// A Reset may have swapped the registry while we searched
	if idx.registry == registry {
		idx.byProduct[product] = recipe
	}
	idx.mu.Unlock()

	return recipe, recipe != nil
}

// FlattenedIngredients returns every substitute of every ingredient slot as (item, count).
// The returned slice is shared and must not be modified.
func (idx *RecipeIndex) FlattenedIngredients(recipe *goods.Recipe) []goods.ThingCount {
	if recipe == nil {
		return nil
	}

	idx.mu.RLock()
	flat, cached := idx.flattened[recipe]
	idx.mu.RUnlock()
	if cached {
		return flat
	}

	flat = recipe.Flatten()

	idx.mu.Lock()
	if existing, ok := idx.flattened[recipe]; ok {
		flat = existing
	} else {
		idx.flattened[recipe] = flat
	}
	idx.mu.Unlock()

	return flat
}

// Export returns the resolved item→recipe name cache; cached misses map to ""
func (idx *RecipeIndex) Export() map[goods.ItemType]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := make(map[goods.ItemType]string, len(idx.byProduct))
	for item, recipe := range idx.byProduct {
		if recipe == nil {
			result[item] = ""
			continue
		}
		result[item] = recipe.Name
	}
	return result
}

// Restore seeds the cache from a previous Export and returns how many entries
// were accepted. Entries that disagree with the current registry are ignored.
func (idx *RecipeIndex) Restore(entries map[goods.ItemType]string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.registry == nil {
		return 0
	}

	// A name shared by several recipes cannot say which one was cached
	byName := make(map[string]*goods.Recipe)
	ambiguous := make(map[string]bool)
	for _, recipe := range idx.registry.Recipes() {
		if _, exists := byName[recipe.Name]; exists {
			ambiguous[recipe.Name] = true
			continue
		}
		byName[recipe.Name] = recipe
	}

	restored := 0
	for item, name := range entries {
		if name == "" {
			if findProducer(idx.registry, item) == nil {
				idx.byProduct[item] = nil
				restored++
			}
			continue
		}
		recipe, ok := byName[name]
		if !ok || ambiguous[name] || !recipe.Produces(item) {
			continue
		}
		idx.byProduct[item] = recipe
		restored++
	}
	return restored
}

// Stats returns cache counters for the current session
func (idx *RecipeIndex) Stats() RecipeIndexStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return RecipeIndexStats{
		SessionID:   idx.sessionID,
		Hits:        idx.hits.Load(),
		Misses:      idx.misses.Load(),
		CachedItems: len(idx.byProduct),
	}
}

func findProducer(registry goods.ItemRegistry, product goods.ItemType) *goods.Recipe {
	if registry == nil {
		return nil
	}
	for _, recipe := range registry.Recipes() {
		if recipe.Produces(product) {
			return recipe
		}
	}
	return nil
}
