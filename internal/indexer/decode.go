// Package indexer decodes adventurer and beast records served by the game's
// chain indexer into engine inputs. Records may be bare objects or wrapped
// in a GraphQL style {"data": {...}} envelope, with camelCase or snake_case
// keys.
package indexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
	"github.com/lawnchairsociety/lootodds/internal/stats"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned for input that is not valid JSON
	ErrInvalidJSON = errors.New("indexer: invalid JSON")

	// ErrRecordNotFound is returned when the input holds no record of the
	// requested kind
	ErrRecordNotFound = errors.New("indexer: record not found")
)

// first returns the first of keys present on r
func first(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func intField(r gjson.Result, keys ...string) int {
	return int(first(r, keys...).Int())
}

// record locates an object of the given kind: data.<kind>, data.<kind>s.0,
// <kind>, or the root itself when it carries the marker key
func record(data []byte, kind, marker string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)

	for _, path := range []string{"data." + kind, "data." + kind + "s.0", kind} {
		if v := root.Get(path); v.IsObject() {
			return v, nil
		}
	}
	if root.IsObject() && root.Get(marker).Exists() {
		return root, nil
	}
	return gjson.Result{}, fmt.Errorf("%w: no %s", ErrRecordNotFound, kind)
}

// DecodeAdventurer reads an adventurer record
func DecodeAdventurer(data []byte) (*simulation.Adventurer, error) {
	r, err := record(data, "adventurer", "health")
	if err != nil {
		return nil, err
	}

	// Stats may be nested or flattened onto the record
	s := first(r, "stats")
	if !s.IsObject() {
		s = r
	}

	adv := &simulation.Adventurer{
		Health:      intField(r, "health"),
		XP:          intField(r, "xp"),
		BeastHealth: intField(r, "beastHealth", "beast_health"),
		Stats: stats.Stats{
			Strength:     intField(s, "strength"),
			Dexterity:    intField(s, "dexterity"),
			Vitality:     intField(s, "vitality"),
			Intelligence: intField(s, "intelligence"),
			Wisdom:       intField(s, "wisdom"),
			Charisma:     intField(s, "charisma"),
			Luck:         intField(s, "luck"),
		},
		ItemSpecialsSeed: intField(r, "itemSpecialsSeed", "item_specials_seed"),
	}
	adv.Equipment = decodeEquipment(first(r, "equipment"))

	if adv.Health < 0 {
		return nil, fmt.Errorf("indexer: negative adventurer health %d", adv.Health)
	}
	return adv, nil
}

// decodeEquipment accepts either an object keyed by slot name or an array
// of items that each carry a "slot"
func decodeEquipment(r gjson.Result) items.Equipment {
	var eq items.Equipment
	switch {
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			if item, ok := decodeItem(v); ok {
				eq.Set(items.StringToSlot(strings.ToLower(k.String())), item)
			}
			return true
		})
	case r.IsArray():
		r.ForEach(func(_, v gjson.Result) bool {
			if item, ok := decodeItem(v); ok {
				eq.Set(items.StringToSlot(strings.ToLower(v.Get("slot").String())), item)
			}
			return true
		})
	}
	return eq
}

// decodeItem reads {"id": n, "xp": n}. A bare number is an id with no xp.
func decodeItem(v gjson.Result) (*items.Item, bool) {
	var item items.Item
	switch {
	case v.Type == gjson.Number:
		item.ID = int(v.Int())
	case v.IsObject():
		item.ID = intField(v, "id", "itemId", "item_id")
		item.XP = intField(v, "xp")
	}
	if item.ID <= 0 {
		return nil, false
	}
	return &item, true
}

// DecodeBeast reads a beast record. The type may be a family name or an
// attack type name; when absent it is derived from the id.
func DecodeBeast(data []byte) (*combat.Beast, error) {
	r, err := record(data, "beast", "level")
	if err != nil {
		return nil, err
	}

	id := intField(r, "id", "beastId", "beast_id")
	if id < 1 || id > combat.PopulationSize {
		return nil, fmt.Errorf("indexer: beast id %d out of range", id)
	}

	b := combat.NewBeast(id, intField(r, "level"), intField(r, "health"))
	if tier := intField(r, "tier"); tier >= 1 && tier <= combat.TierCount {
		b.Tier = tier
	}
	if t := combat.StringToBeastType(strings.ToLower(first(r, "type").String())); t != combat.BeastNone {
		b.Type = t
	}
	b.Specials = items.Specials{
		Prefix: intField(r, "specialPrefix", "special_prefix", "special2"),
		Suffix: intField(r, "specialSuffix", "special_suffix", "special3"),
	}
	return &b, nil
}
