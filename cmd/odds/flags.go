package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/indexer"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
	"github.com/lawnchairsociety/lootodds/internal/stats"
)

// commonFlags are shared by every command
type commonFlags struct {
	configFile  *string
	loggingFile *string
	itemsFile   *string
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configFile:  fs.String("config", "data/odds.yaml", "Path to engine config YAML file"),
		loggingFile: fs.String("logging", "data/logging.yaml", "Path to logging config YAML file"),
		itemsFile:   fs.String("items", "", "Path to an items YAML file (default: built-in catalog)"),
	}
}

// adventurerFlags describe an adventurer on the command line
type adventurerFlags struct {
	file *string

	health      *int
	xp          *int
	beastHealth *int
	seed        *int

	str, dex, vit, intel, wis, cha, luck *int

	gear map[items.Slot]*string
}

func registerAdventurer(fs *flag.FlagSet) *adventurerFlags {
	a := &adventurerFlags{
		file:        fs.String("adventurer", "", "Path to an indexer adventurer JSON record (overrides the flags below)"),
		health:      fs.Int("health", 100, "Adventurer health"),
		xp:          fs.Int("xp", 25, "Adventurer experience (level = floor(sqrt(xp)))"),
		beastHealth: fs.Int("beast-hp-left", 0, "Current beast health when mid-fight (0: full)"),
		seed:        fs.Int("specials-seed", 0, "Item specials seed"),
		str:         fs.Int("str", 0, "Strength"),
		dex:         fs.Int("dex", 0, "Dexterity"),
		vit:         fs.Int("vit", 0, "Vitality"),
		intel:       fs.Int("int", 0, "Intelligence"),
		wis:         fs.Int("wis", 0, "Wisdom"),
		cha:         fs.Int("cha", 0, "Charisma"),
		luck:        fs.Int("luck", 0, "Luck (crit chance %)"),
		gear:        make(map[items.Slot]*string),
	}
	for slot := items.SlotWeapon; slot <= items.SlotRing; slot++ {
		name := slot.String()
		a.gear[slot] = fs.String(name, "", fmt.Sprintf("Equipped %s as id or id:xp", name))
	}
	return a
}

// build returns the adventurer described by the flags
func (a *adventurerFlags) build(catalog *items.Catalog) (*simulation.Adventurer, error) {
	if *a.file != "" {
		data, err := os.ReadFile(*a.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read adventurer file: %w", err)
		}
		return indexer.DecodeAdventurer(data)
	}

	adv := &simulation.Adventurer{
		Health:      *a.health,
		XP:          *a.xp,
		BeastHealth: *a.beastHealth,
		Stats: stats.Stats{
			Strength:     *a.str,
			Dexterity:    *a.dex,
			Vitality:     *a.vit,
			Intelligence: *a.intel,
			Wisdom:       *a.wis,
			Charisma:     *a.cha,
			Luck:         *a.luck,
		},
		ItemSpecialsSeed: *a.seed,
	}

	for slot, arg := range a.gear {
		if *arg == "" {
			continue
		}
		item, err := parseItem(*arg)
		if err != nil {
			return nil, fmt.Errorf("-%s: %w", slot, err)
		}
		def, ok := catalog.Lookup(item.ID)
		if !ok {
			return nil, fmt.Errorf("-%s: unknown item id %d", slot, item.ID)
		}
		if def.Slot != slot {
			return nil, fmt.Errorf("-%s: %s is a %s item", slot, def.Name, def.Slot)
		}
		adv.Equipment.Set(slot, item)
	}
	return adv, nil
}

// parseItem reads "id" or "id:xp"
func parseItem(s string) (*items.Item, error) {
	idPart, xpPart, hasXP := strings.Cut(strings.TrimSpace(s), ":")
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid item id %q", idPart)
	}
	item := &items.Item{ID: id}
	if hasXP {
		xp, err := strconv.Atoi(xpPart)
		if err != nil || xp < 0 {
			return nil, fmt.Errorf("invalid item xp %q", xpPart)
		}
		item.XP = xp
	}
	return item, nil
}

// beastFlags describe a beast on the command line
type beastFlags struct {
	file   *string
	id     *int
	level  *int
	health *int
	prefix *int
	suffix *int
}

func registerBeast(fs *flag.FlagSet) *beastFlags {
	return &beastFlags{
		file:   fs.String("beast", "", "Path to an indexer beast JSON record (overrides the flags below)"),
		id:     fs.Int("beast-id", 30, "Beast id (1-75)"),
		level:  fs.Int("beast-level", 5, "Beast level"),
		health: fs.Int("beast-hp", 80, "Beast health"),
		prefix: fs.Int("beast-prefix", 0, "Beast special prefix index (applies at level 19+)"),
		suffix: fs.Int("beast-suffix", 0, "Beast special suffix index (applies at level 19+)"),
	}
}

func (b *beastFlags) build() (*combat.Beast, error) {
	if *b.file != "" {
		data, err := os.ReadFile(*b.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read beast file: %w", err)
		}
		return indexer.DecodeBeast(data)
	}
	if *b.id < 1 || *b.id > combat.PopulationSize {
		return nil, fmt.Errorf("-beast-id must be between 1 and %d", combat.PopulationSize)
	}
	beast := combat.NewBeast(*b.id, *b.level, *b.health)
	beast.Specials = items.Specials{Prefix: *b.prefix, Suffix: *b.suffix}
	return &beast, nil
}
