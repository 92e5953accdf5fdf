package goods

import "fmt"

// Domain errors for registry data

// ErrCircularDependency indicates a cycle was detected in recipe data
type ErrCircularDependency struct {
	Item  ItemType
	Chain []ItemType
}

func (e *ErrCircularDependency) Error() string {
	return fmt.Sprintf("circular dependency detected for %s: %v", e.Item, e.Chain)
}

// ErrUnknownItem indicates a cost or recipe references an item the registry does not define
type ErrUnknownItem struct {
	Item         ItemType
	ReferencedBy string
}

func (e *ErrUnknownItem) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unknown item: %s", e.Item)
	}
	return fmt.Sprintf("unknown item: %s (referenced by %s)", e.Item, e.ReferencedBy)
}

// ErrDuplicateRecipe indicates two recipes share a name. Lookups stay correct,
// but persisted recipe caches cannot name either of them.
type ErrDuplicateRecipe struct {
	Name  string
	Count int
}

func (e *ErrDuplicateRecipe) Error() string {
	return fmt.Sprintf("recipe name %s is used by %d recipes", e.Name, e.Count)
}

// ErrInvalidRegistry indicates registry data could not be loaded
type ErrInvalidRegistry struct {
	Source string
	Reason string
}

func (e *ErrInvalidRegistry) Error() string {
	return fmt.Sprintf("invalid registry %s: %s", e.Source, e.Reason)
}
