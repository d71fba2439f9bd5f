package combat

import (
	"math"

	"github.com/lawnchairsociety/lootodds/internal/items"
)

const (
	// MinimumDamageToBeasts is the floor on a hero strike
	MinimumDamageToBeasts = 4

	// MinimumDamageFromBeasts is the floor on a beast strike
	MinimumDamageFromBeasts = 2

	// MinimumDamageFromObstacles is the floor on an obstacle hit
	MinimumDamageFromObstacles = 2

	// StrengthBonusPercent is the damage bonus per strength point
	StrengthBonusPercent = 10

	// PrefixMatchMultiplier and SuffixMatchMultiplier scale the base damage
	// added when attacker and defender share an affix
	PrefixMatchMultiplier = 8
	SuffixMatchMultiplier = 2
)

// Effectiveness is the elemental relation of an attack to an armor
type Effectiveness int

const (
	Weak Effectiveness = iota - 1
	Fair
	Strong
)

// String returns the string representation of an Effectiveness
func (e Effectiveness) String() string {
	switch e {
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	default:
		return "fair"
	}
}

// Matchup returns how effective an attack type is against an armor type.
// Striking an empty slot (TypeNone armor) is always strong.
func Matchup(attack, armor items.Type) Effectiveness {
	if armor == items.TypeNone {
		return Strong
	}
	switch attack {
	case items.Magic:
		switch armor {
		case items.Metal:
			return Strong
		case items.Hide:
			return Weak
		}
	case items.Blade:
		switch armor {
		case items.Cloth:
			return Strong
		case items.Metal:
			return Weak
		}
	case items.Bludgeon:
		switch armor {
		case items.Hide:
			return Strong
		case items.Cloth:
			return Weak
		}
	}
	return Fair
}

// ElementalAdjust applies the ±50% elemental adjustment to a base value
func ElementalAdjust(base int, e Effectiveness) int {
	switch e {
	case Strong:
		return base + base/2
	case Weak:
		return base - base/2
	default:
		return base
	}
}

// BaseValue is the attack or armor value of something at a level and tier:
// level × (6 − tier)
func BaseValue(level, tier int) int {
	if level < 1 {
		level = 1
	}
	if tier < 1 || tier > TierCount {
		tier = TierCount
	}
	return level * (TierCount + 1 - tier)
}

// Strike describes one attack against one defender
type Strike struct {
	Attack     int
	AttackType items.Type
	Armor      int
	ArmorType  items.Type

	// Strength adds StrengthBonusPercent of the adjusted attack per point
	Strength int

	PrefixMatch bool
	SuffixMatch bool

	// ReductionPercent removes a share of the total before the floor applies
	ReductionPercent float64

	Minimum int
}

// Damage returns the damage of the strike, with or without a critical hit
func (s Strike) Damage(critical bool) int {
	adjusted := ElementalAdjust(s.Attack, Matchup(s.AttackType, s.ArmorType))

	total := adjusted
	if s.Strength > 0 {
		total += adjusted * s.Strength * StrengthBonusPercent / 100
	}
	if critical {
		total += adjusted
	}
	if s.PrefixMatch {
		total += adjusted * PrefixMatchMultiplier
	}
	if s.SuffixMatch {
		total += adjusted * SuffixMatchMultiplier
	}
	total -= s.Armor

	if s.ReductionPercent > 0 && total > 0 {
		keep := 1 - math.Min(s.ReductionPercent, 100)/100
		total = int(math.Floor(float64(total) * keep))
	}

	if total < s.Minimum {
		return s.Minimum
	}
	return total
}

// SpecialMatch reports which affixes two special sets share. Unset affixes
// never match.
func SpecialMatch(a, b items.Specials) (prefix, suffix bool) {
	prefix = a.Prefix != 0 && a.Prefix == b.Prefix
	suffix = a.Suffix != 0 && a.Suffix == b.Suffix
	return prefix, suffix
}

// BeastCritChance is the crit chance of an ordinary beast or obstacle strike:
// min(35, max(5, level×2)) percent
func BeastCritChance(level int) float64 {
	pct := level * 2
	if pct < 5 {
		pct = 5
	}
	if pct > 35 {
		pct = 35
	}
	return float64(pct) / 100
}

// AmbushCritChance scales the ordinary crit chance by an ambush multiplier,
// capped at certainty. A non-positive multiplier leaves it unchanged.
func AmbushCritChance(level int, multiplier float64) float64 {
	base := BeastCritChance(level)
	if multiplier <= 0 {
		return base
	}
	return math.Min(1, base*multiplier)
}
