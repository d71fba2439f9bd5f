package items

import "github.com/lawnchairsociety/lootodds/internal/stats"

const (
	// MaxLevel is the greatness cap of an item
	MaxLevel = 20

	// SpecialsUnlockLevel is the item level at which name affixes apply
	SpecialsUnlockLevel = 15

	// PrefixPoolSize is the number of distinct prefix names an item or beast can roll
	PrefixPoolSize = 69

	// SuffixPoolSize is the number of distinct suffix names an item or beast can roll
	SuffixPoolSize = 18
)

// Item is an owned item: a catalog id and the experience it has gained.
type Item struct {
	ID int `json:"id"`
	XP int `json:"xp"`
}

// Level returns floor(sqrt(xp)) clamped to [1, MaxLevel]
func (i Item) Level() int {
	level := stats.LevelFromXP(i.XP)
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Specials identifies the affixes an item has rolled. Zero means none.
type Specials struct {
	Prefix int
	Suffix int
}

// Specials returns the unlocked affixes for the item given the adventurer's
// specials seed. Items below SpecialsUnlockLevel, or a zero seed, roll none.
func (i Item) Specials(seed int) Specials {
	if seed <= 0 || i.ID <= 0 || i.Level() < SpecialsUnlockLevel {
		return Specials{}
	}
	return Specials{
		Prefix: (seed+i.ID)%PrefixPoolSize + 1,
		Suffix: (seed+i.ID)%SuffixPoolSize + 1,
	}
}

// Any reports whether at least one affix is set.
func (s Specials) Any() bool {
	return s.Prefix != 0 || s.Suffix != 0
}
