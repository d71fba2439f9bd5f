package insights

import (
	"fmt"
	"strings"
)

// StatsMode selects how intelligence mitigates obstacles
type StatsMode int

const (
	// Dodge lets intelligence avoid an obstacle outright
	Dodge StatsMode = iota
	// Reduction never dodges but cuts obstacle damage by up to 50%
	Reduction
)

// String returns the string representation of a StatsMode
func (m StatsMode) String() string {
	switch m {
	case Reduction:
		return "reduction"
	default:
		return "dodge"
	}
}

// ParseStatsMode converts a string to a StatsMode
func ParseStatsMode(s string) (StatsMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dodge":
		return Dodge, nil
	case "reduction", "reduce":
		return Reduction, nil
	default:
		return Dodge, fmt.Errorf("unknown stats mode %q", s)
	}
}

// GameSettings are the per-game rules that shape exploration risk
type GameSettings struct {
	StatsMode StatsMode `json:"stats_mode"`

	// BaseDamageReduction is a flat percentage removed from every hit
	BaseDamageReduction int `json:"base_damage_reduction"`
}

// reductionPercent clamps the flat reduction to [0, 100]
func (g GameSettings) reductionPercent() float64 {
	return float64(min(100, max(0, g.BaseDamageReduction)))
}
