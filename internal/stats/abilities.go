package stats

import "math"

// Stats holds the seven adventurer ability stats
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
	Luck         int `json:"luck"`
}

// AbilityNames in display order
var AbilityNames = []string{"Strength", "Dexterity", "Vitality", "Intelligence", "Wisdom", "Charisma", "Luck"}

// MaxReductionPercent is the share of damage a maxed stat removes in
// reduction mode.
const MaxReductionPercent = 50

// LevelFromXP returns floor(sqrt(xp)), never below 1
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Sqrt(float64(xp)))
	// Guard against float rounding on perfect squares
	for (level+1)*(level+1) <= xp {
		level++
	}
	for level*level > xp {
		level--
	}
	if level < 1 {
		return 1
	}
	return level
}

// CritChance returns the luck stat as a crit probability in [0, 1]
func (s Stats) CritChance() float64 {
	return clampPercent(s.Luck) / 100
}

// AvoidChance returns the chance a stat lets the adventurer avoid a threat
// of the adventurer's own level: min(1, stat/level).
func AvoidChance(stat, level int) float64 {
	if stat <= 0 {
		return 0
	}
	if level < 1 || stat >= level {
		return 1
	}
	return float64(stat) / float64(level)
}

// ReductionFraction returns the share of damage removed in reduction mode.
func ReductionFraction(stat, level int) float64 {
	return AvoidChance(stat, level) * MaxReductionPercent / 100
}

// AmbushAvoidChance is the wisdom-based chance of spotting a beast first
func (s Stats) AmbushAvoidChance(level int) float64 {
	return AvoidChance(s.Wisdom, level)
}

// ObstacleAvoidChance is the intelligence-based chance of dodging an obstacle
func (s Stats) ObstacleAvoidChance(level int) float64 {
	return AvoidChance(s.Intelligence, level)
}

// FleeChance is the dexterity-based chance of escaping a fight
func (s Stats) FleeChance(level int) float64 {
	return AvoidChance(s.Dexterity, level)
}

func clampPercent(v int) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return float64(v)
	}
}
