package goods

import "context"

// ItemRegistry is the read-only source of static item and recipe data.
// Implementations must return recipes in a stable order within a session.
type ItemRegistry interface {
	// Item returns the definition of an item type
	Item(item ItemType) (*ItemDef, bool)

	// Items returns all item definitions in registry order
	Items() []*ItemDef

	// Recipes returns all recipes in registry order
	Recipes() []*Recipe

	// Fingerprint identifies the loaded data, used to key persisted caches
	Fingerprint() string
}

// RecipeCacheRepository persists the derived item→recipe cache of a registry.
// Entries are keyed by registry fingerprint; an empty recipe name is a cached miss.
type RecipeCacheRepository interface {
	Load(ctx context.Context, fingerprint string) (map[ItemType]string, error)
	Save(ctx context.Context, fingerprint string, entries map[ItemType]string) error
}
