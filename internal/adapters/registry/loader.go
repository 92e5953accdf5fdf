package registry

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"gopkg.in/yaml.v3"
)

// File is the on-disk registry layout
type File struct {
	Items   []ItemEntry   `yaml:"items"`
	Recipes []RecipeEntry `yaml:"recipes"`
}

// ItemEntry declares one item type
type ItemEntry struct {
	Def      string       `yaml:"def"`
	Label    string       `yaml:"label,omitempty"`
	Resource bool         `yaml:"resource,omitempty"`
	Cost     []CountEntry `yaml:"cost,omitempty"`
}

// RecipeEntry declares one recipe; each ingredient slot lists its accepted substitutes
type RecipeEntry struct {
	Name        string         `yaml:"name"`
	Products    []CountEntry   `yaml:"products"`
	Ingredients [][]CountEntry `yaml:"ingredients"`
}

// CountEntry is an item with a quantity
type CountEntry struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

// Parse decodes registry YAML. The fingerprint is the SHA-256 of the raw bytes,
// so any edit starts a new recipe cache generation.
func Parse(data []byte, source string) (*goods.StaticRegistry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &goods.ErrInvalidRegistry{Source: source, Reason: "file is empty"}
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &goods.ErrInvalidRegistry{Source: source, Reason: err.Error()}
	}

	items := make([]*goods.ItemDef, 0, len(file.Items))
	for i, entry := range file.Items {
		if entry.Def == "" {
			return nil, &goods.ErrInvalidRegistry{Source: source, Reason: fmt.Sprintf("item %d has no def", i)}
		}
		cost, err := toCounts(entry.Cost)
		if err != nil {
			return nil, &goods.ErrInvalidRegistry{Source: source, Reason: fmt.Sprintf("item %s: %v", entry.Def, err)}
		}
		items = append(items, &goods.ItemDef{
			Type:            goods.ItemType(entry.Def),
			Label:           entry.Label,
			CountAsResource: entry.Resource,
			CostList:        cost,
		})
	}

	recipes := make([]*goods.Recipe, 0, len(file.Recipes))
	for i, entry := range file.Recipes {
		recipe, err := toRecipe(entry)
		if err != nil {
			name := entry.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, &goods.ErrInvalidRegistry{Source: source, Reason: fmt.Sprintf("recipe %s: %v", name, err)}
		}
		recipes = append(recipes, recipe)
	}

	sum := sha256.Sum256(data)
	return goods.NewStaticRegistry(items, recipes, hex.EncodeToString(sum[:])), nil
}

// LoadFile reads and parses a registry file
func LoadFile(path string) (*goods.StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}
	return Parse(data, filepath.Clean(path))
}

func toRecipe(entry RecipeEntry) (*goods.Recipe, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	products, err := toCounts(entry.Products)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("at least one product is required")
	}

	slots := make([]goods.IngredientSlot, 0, len(entry.Ingredients))
	for _, slot := range entry.Ingredients {
		counts, err := toCounts(slot)
		if err != nil {
			return nil, err
		}
		subs := make([]goods.Substitute, 0, len(counts))
		for _, c := range counts {
			subs = append(subs, goods.Substitute{Item: c.Item, Count: c.Count})
		}
		slots = append(slots, goods.IngredientSlot{Substitutes: subs})
	}

	return &goods.Recipe{Name: entry.Name, Products: products, Ingredients: slots}, nil
}

func toCounts(entries []CountEntry) ([]goods.ThingCount, error) {
	counts := make([]goods.ThingCount, 0, len(entries))
	for _, e := range entries {
		if e.Item == "" {
			return nil, fmt.Errorf("entry with empty item")
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("negative count for %s", e.Item)
		}
		counts = append(counts, goods.NewThingCount(goods.ItemType(e.Item), e.Count))
	}
	return counts, nil
}
