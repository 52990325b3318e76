// Package menu loads the restaurant menu participants order from.
//
// A menu is an ordered tree: food type (vegetarian, non_vegetarian) →
// category → items. An item has either a single price or a list of sizes
// with their own prices. Order in the source file is preserved.
package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/grouporder/internal/models"
)

//go:embed default_menu.yaml
var defaultMenu []byte

var (
	ErrUnknownType     = errors.New("unknown food type")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNegativePrice   = errors.New("negative price")
)

var typeLabels = map[string]string{
	"vegetarian":     "Vegetarian",
	"non_vegetarian": "Non-Vegetarian",
}

// Menu is the full catalog.
type Menu struct {
	Types []FoodType
}

// FoodType is a top-level split of the menu.
type FoodType struct {
	Key        string
	Categories []Category
}

// Label returns a human-readable name for the type.
func (t FoodType) Label() string {
	if label, ok := typeLabels[t.Key]; ok {
		return label
	}
	return DisplayName(t.Key)
}

// Category groups items within a food type.
type Category struct {
	Key   string
	Items []Item
}

// Label returns the category key with underscores shown as spaces.
func (c Category) Label() string {
	return DisplayName(c.Key)
}

// Item is one orderable dish.
type Item struct {
	Name        string
	Description string

	// Price is used when Prices is empty.
	Price float64

	// Prices lists per-size prices in menu order.
	Prices []SizePrice
}

// SizePrice is one size option of an item.
type SizePrice struct {
	Size  string
	Price float64
}

// Options returns the choices a participant can add to the cart. Unsized
// items yield a single option with size models.DefaultSize.
func (i Item) Options() []SizePrice {
	if len(i.Prices) > 0 {
		return i.Prices
	}
	return []SizePrice{{Size: models.DefaultSize, Price: i.Price}}
}

// Sized reports whether the item has per-size prices.
func (i Item) Sized() bool {
	return len(i.Prices) > 0
}

// DisplayName renders a key such as "main_course" as "main course".
func DisplayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// Default returns the embedded menu.
func Default() (*Menu, error) {
	return Parse(defaultMenu)
}

// Load reads a menu file. YAML and JSON are both accepted. An empty path
// returns the embedded menu.
func Load(path string) (*Menu, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("menu %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a menu document. The tree may be wrapped in a top-level
// "menu" key.
func Parse(data []byte) (*Menu, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("menu is empty")
	}

	root := doc.Content[0]
	if inner := lookup(root, "menu"); inner != nil {
		root = inner
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: menu must be a mapping of food types", root.Line)
	}

	m := &Menu{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		ft := FoodType{Key: root.Content[i].Value}
		categories := root.Content[i+1]
		if categories.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: %s must be a mapping of categories", categories.Line, ft.Key)
		}

		for j := 0; j+1 < len(categories.Content); j += 2 {
			cat := Category{Key: categories.Content[j].Value}
			if err := categories.Content[j+1].Decode(&cat.Items); err != nil {
				return nil, fmt.Errorf("%s/%s: %w", ft.Key, cat.Key, err)
			}
			ft.Categories = append(ft.Categories, cat)
		}
		m.Types = append(m.Types, ft)
	}

	if len(m.Types) == 0 {
		return nil, errors.New("menu has no food types")
	}
	return m, nil
}

// Type returns the food type with key.
func (m *Menu) Type(key string) (FoodType, error) {
	for _, t := range m.Types {
		if t.Key == key {
			return t, nil
		}
	}
	return FoodType{}, fmt.Errorf("%w: %s", ErrUnknownType, key)
}

// Category returns one category of one food type.
func (m *Menu) Category(typeKey, categoryKey string) (Category, error) {
	t, err := m.Type(typeKey)
	if err != nil {
		return Category{}, err
	}
	for _, c := range t.Categories {
		if c.Key == categoryKey {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s/%s", ErrUnknownCategory, typeKey, categoryKey)
}

// UnmarshalYAML decodes an item, keeping the order of its sizes.
func (i *Item) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name        string    `yaml:"name"`
		Description string    `yaml:"description"`
		Price       *float64  `yaml:"price"`
		Prices      yaml.Node `yaml:"prices"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("line %d: item without a name", node.Line)
	}

	i.Name = raw.Name
	i.Description = raw.Description
	if raw.Price != nil {
		if *raw.Price < 0 {
			return fmt.Errorf("line %d: %s: %w", node.Line, raw.Name, ErrNegativePrice)
		}
		i.Price = *raw.Price
	}

	if raw.Prices.Kind == yaml.MappingNode {
		for k := 0; k+1 < len(raw.Prices.Content); k += 2 {
			var price float64
			if err := raw.Prices.Content[k+1].Decode(&price); err != nil {
				return fmt.Errorf("line %d: price for %s: %w", raw.Prices.Content[k+1].Line, raw.Name, err)
			}
			if price < 0 {
				return fmt.Errorf("line %d: %s %s: %w", raw.Prices.Content[k+1].Line, raw.Name, raw.Prices.Content[k].Value, ErrNegativePrice)
			}
			i.Prices = append(i.Prices, SizePrice{Size: raw.Prices.Content[k].Value, Price: price})
		}
	}

	if raw.Price == nil && len(i.Prices) == 0 {
		return fmt.Errorf("line %d: %s has neither price nor prices", node.Line, raw.Name)
	}
	return nil
}

func lookup(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
