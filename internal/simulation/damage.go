package simulation

import (
	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
)

// ReferenceArmor is struck when the adventurer wears no armor at all, so the
// beast distribution is never empty.
var ReferenceArmor = items.Item{ID: 21, XP: 1}

// HeroOptions returns the damage distribution of one strike of the
// adventurer's weapon against the beast: a base atom and a critical atom
// weighted by the luck-derived crit chance.
func HeroOptions(adv *Adventurer, beast *combat.Beast, catalog *items.Catalog) []DamageOption {
	strike := combat.Strike{
		Armor:     beast.ArmorValue(),
		ArmorType: beast.ArmorType(),
		Strength:  adv.Stats.Strength,
		Minimum:   combat.MinimumDamageToBeasts,
	}

	if weapon := adv.Equipment.Weapon; weapon != nil {
		if def, ok := catalog.Lookup(weapon.ID); ok && def.Slot == items.SlotWeapon {
			strike.Attack = combat.BaseValue(weapon.Level(), def.Tier)
			strike.AttackType = def.Type
			strike.PrefixMatch, strike.SuffixMatch = combat.SpecialMatch(
				weapon.Specials(adv.ItemSpecialsSeed), beast.ActiveSpecials())
		}
	}

	return splitCritical(strike, adv.Stats.CritChance())
}

// BeastOptions returns the damage distribution of one beast strike against
// the adventurer. Every equipped armor slot is equally likely to be hit;
// critChance splits each slot into base and critical atoms.
func BeastOptions(adv *Adventurer, beast *combat.Beast, catalog *items.Catalog, critChance float64) []DamageOption {
	slots := adv.Equipment.EquippedArmor()
	if len(slots) == 0 {
		strike := beastStrike(beast, ReferenceArmor, catalog, 0)
		return []DamageOption{{Damage: strike.Damage(false), Probability: 1}}
	}

	weight := 1 / float64(len(slots))
	options := make([]DamageOption, 0, len(slots)*2)
	for _, slot := range slots {
		strike := beastStrike(beast, *adv.Equipment.Get(slot), catalog, adv.ItemSpecialsSeed)
		for _, o := range splitCritical(strike, critChance) {
			options = append(options, DamageOption{Damage: o.Damage, Probability: o.Probability * weight})
		}
	}

	return normalizeOptions(options)
}

// beastStrike describes a beast hitting one armor item
func beastStrike(beast *combat.Beast, armor items.Item, catalog *items.Catalog, seed int) combat.Strike {
	strike := combat.Strike{
		Attack:     beast.AttackValue(),
		AttackType: beast.AttackType(),
		Minimum:    combat.MinimumDamageFromBeasts,
	}
	if def, ok := catalog.Lookup(armor.ID); ok && def.Slot.IsArmor() {
		strike.Armor = combat.BaseValue(armor.Level(), def.Tier)
		strike.ArmorType = def.Type
		strike.PrefixMatch, strike.SuffixMatch = combat.SpecialMatch(
			beast.ActiveSpecials(), armor.Specials(seed))
	}
	return strike
}

// splitCritical turns a strike into base and critical atoms. The atoms
// collapse into one when the chance is 0 or 1 or both values coincide.
func splitCritical(strike combat.Strike, critChance float64) []DamageOption {
	switch {
	case critChance <= 0:
		return []DamageOption{{Damage: strike.Damage(false), Probability: 1}}
	case critChance >= 1:
		return []DamageOption{{Damage: strike.Damage(true), Probability: 1}}
	}
	return normalizeOptions([]DamageOption{
		{Damage: strike.Damage(false), Probability: 1 - critChance},
		{Damage: strike.Damage(true), Probability: critChance},
	})
}
