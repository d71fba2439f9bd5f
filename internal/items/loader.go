package items

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/items.yaml
var defaultCatalogYAML []byte

// Definition represents an item definition from the YAML catalog
type Definition struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	SlotName string `yaml:"slot"`
	Tier     int    `yaml:"tier"`
	TypeName string `yaml:"type"`

	Slot Slot `yaml:"-"`
	Type Type `yaml:"-"`
}

// Catalog holds item definitions keyed by id
type Catalog struct {
	byID map[int]Definition
}

type catalogFile struct {
	Items []Definition `yaml:"items"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the embedded item catalog. The embedded file is
// validated by tests, so a parse failure here is a build defect.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("items: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalogFromYAML loads an item catalog from a YAML file
func LoadCatalogFromYAML(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates catalog YAML
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	c := &Catalog{byID: make(map[int]Definition, len(file.Items))}
	for _, def := range file.Items {
		def.Slot = StringToSlot(def.SlotName)
		def.Type = StringToType(def.TypeName)

		switch {
		case def.ID <= 0:
			return nil, fmt.Errorf("item %q: invalid id %d", def.Name, def.ID)
		case def.Slot == SlotNone:
			return nil, fmt.Errorf("item %d: unknown slot %q", def.ID, def.SlotName)
		case def.Type == TypeNone:
			return nil, fmt.Errorf("item %d: unknown type %q", def.ID, def.TypeName)
		case def.Tier < 1 || def.Tier > 5:
			return nil, fmt.Errorf("item %d: tier %d out of range", def.ID, def.Tier)
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("item %d: duplicate id", def.ID)
		}
		c.byID[def.ID] = def
	}

	return c, nil
}

// Lookup returns the definition for an item id
func (c *Catalog) Lookup(id int) (Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.byID)
}

// IDsForSlot returns every item id equippable in the slot, ascending
func (c *Catalog) IDsForSlot(slot Slot) []int {
	var ids []int
	for id, def := range c.byID {
		if def.Slot == slot {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
