// Package simulation computes outcome distributions for a single fight
// between an adventurer and a beast.
package simulation

import (
	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/stats"
)

// Adventurer is the read-only snapshot of an adventurer the engine works on
type Adventurer struct {
	Health           int             `json:"health"`
	XP               int             `json:"xp"`
	BeastHealth      int             `json:"beast_health"`
	Stats            stats.Stats     `json:"stats"`
	Equipment        items.Equipment `json:"equipment"`
	ItemSpecialsSeed int             `json:"item_specials_seed"`
}

// Level returns floor(sqrt(xp)), never below 1
func (a *Adventurer) Level() int {
	return stats.LevelFromXP(a.XP)
}

// currentBeastHealth returns the beast's health for the fight: the
// adventurer's mid-fight record when present, else the beast's own.
func currentBeastHealth(a *Adventurer, b *combat.Beast) int {
	if a.BeastHealth != 0 {
		return a.BeastHealth
	}
	return b.Health
}

// canFight reports whether both sides are present and alive
func canFight(a *Adventurer, b *combat.Beast) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Health > 0 && currentBeastHealth(a, b) > 0
}
