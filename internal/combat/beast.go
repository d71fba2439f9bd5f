// Package combat holds the game rules the outcome engine is built on:
// beast and obstacle populations, elemental matchups and strike damage.
package combat

import "github.com/lawnchairsociety/lootodds/internal/items"

const (
	// PopulationSize is the number of beast ids and of obstacle ids
	PopulationSize = 75

	// BeastSpecialsUnlockLevel is the beast level from which name affixes apply
	BeastSpecialsUnlockLevel = 19

	// TierCount is the number of tiers; tier 1 is the strongest
	TierCount = 5
)

// BeastType is the family of a beast
type BeastType int

const (
	BeastNone BeastType = iota
	Magical
	Hunter
	Brute
)

// BeastTypes lists the three families in id-band order
var BeastTypes = []BeastType{Magical, Hunter, Brute}

// String returns the string representation of a BeastType
func (t BeastType) String() string {
	switch t {
	case Magical:
		return "magical"
	case Hunter:
		return "hunter"
	case Brute:
		return "brute"
	default:
		return "none"
	}
}

// AttackType returns the kind of damage the family deals
func (t BeastType) AttackType() items.Type {
	switch t {
	case Magical:
		return items.Magic
	case Hunter:
		return items.Blade
	case Brute:
		return items.Bludgeon
	default:
		return items.TypeNone
	}
}

// ArmorType returns the kind of armor the family wears
func (t BeastType) ArmorType() items.Type {
	switch t {
	case Magical:
		return items.Cloth
	case Hunter:
		return items.Hide
	case Brute:
		return items.Metal
	default:
		return items.TypeNone
	}
}

// StringToBeastType converts a string to a BeastType
func StringToBeastType(s string) BeastType {
	switch s {
	case "magical", "magic":
		return Magical
	case "hunter", "blade":
		return Hunter
	case "brute", "bludgeon":
		return Brute
	default:
		return BeastNone
	}
}

// TierForID returns the tier of a beast or obstacle id. Ids come in three
// bands of 25, each five tiers of five.
func TierForID(id int) int {
	if id < 1 || id > PopulationSize {
		return 0
	}
	return ((id-1)%25)/5 + 1
}

// BeastTypeForID returns the family of a beast id
func BeastTypeForID(id int) BeastType {
	switch {
	case id >= 1 && id <= 25:
		return Magical
	case id >= 26 && id <= 50:
		return Hunter
	case id >= 51 && id <= PopulationSize:
		return Brute
	default:
		return BeastNone
	}
}

// ObstacleTypeForID returns the attack type of an obstacle id
func ObstacleTypeForID(id int) items.Type {
	return BeastTypeForID(id).AttackType()
}

// Beast is a concrete beast being fought
type Beast struct {
	ID       int
	Level    int
	Tier     int
	Type     BeastType
	Health   int
	Specials items.Specials
}

// NewBeast builds a beast from its id, deriving tier and family
func NewBeast(id, level, health int) Beast {
	return Beast{
		ID:     id,
		Level:  level,
		Tier:   TierForID(id),
		Type:   BeastTypeForID(id),
		Health: health,
	}
}

// ActiveSpecials returns the beast's affixes if its level has unlocked them
func (b Beast) ActiveSpecials() items.Specials {
	if b.Level < BeastSpecialsUnlockLevel {
		return items.Specials{}
	}
	return b.Specials
}

// tier returns the beast's tier, falling back to the id-derived tier
func (b Beast) tier() int {
	if b.Tier >= 1 && b.Tier <= TierCount {
		return b.Tier
	}
	if t := TierForID(b.ID); t != 0 {
		return t
	}
	return TierCount
}

// family returns the beast's type, falling back to the id-derived type
func (b Beast) family() BeastType {
	if b.Type != BeastNone {
		return b.Type
	}
	return BeastTypeForID(b.ID)
}

// AttackValue is the beast's base attack: level × (6 − tier)
func (b Beast) AttackValue() int {
	return BaseValue(b.Level, b.tier())
}

// ArmorValue is the beast's armor: level × (6 − tier)
func (b Beast) ArmorValue() int {
	return BaseValue(b.Level, b.tier())
}

// AttackType returns the beast's damage type
func (b Beast) AttackType() items.Type {
	return b.family().AttackType()
}

// ArmorType returns the beast's armor type
func (b Beast) ArmorType() items.Type {
	return b.family().ArmorType()
}
