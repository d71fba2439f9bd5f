package insights

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
)

// ErrSweepBudgetExceeded is returned when an exact sweep would emit more
// weighted samples than allowed. Callers fall back to sampling.
var ErrSweepBudgetExceeded = errors.New("insights: exact sweep budget exceeded")

// Category is the population a sweep draws threats from
type Category int

const (
	Beasts Category = iota
	Obstacles
)

// String returns the string representation of a Category
func (c Category) String() string {
	if c == Obstacles {
		return "obstacles"
	}
	return "beasts"
}

// outcomesPerScenario is avoided, base hit and critical hit
const outcomesPerScenario = 3

// Target is one armor slot as an incoming hit sees it. An empty slot has
// no armor and no armor type.
type Target struct {
	Slot      items.Slot
	Equipped  bool
	Armor     int
	ArmorType items.Type
	Specials  items.Specials
}

// Sweep describes one pass over a threat population
type Sweep struct {
	Category Category
	Targets  []Target

	MinLevel int
	MaxLevel int

	// AvoidChance is the chance a threat never lands
	AvoidChance float64
	CritChance  float64

	// ReductionPercent is removed from every hit before the damage floor
	ReductionPercent float64
	Minimum          int

	// Affixes enables random name matches between threat and armor
	Affixes bool

	// MaxSamples caps the exact sweep. 0 means no cap.
	MaxSamples int

	// Samples is the number of draws per target of the sampled sweep
	Samples int
	Seed    uint64
}

// Sweeper computes one histogram per target of a sweep
type Sweeper func(Sweep) ([]Histogram, error)

func (s Sweep) levels() int {
	return s.MaxLevel - s.MinLevel + 1
}

// scenarioCount is the number of affix scenarios the widest target needs
func (s Sweep) scenarioCount() int {
	if !s.Affixes || s.MaxLevel < combat.BeastSpecialsUnlockLevel {
		return 1
	}
	for _, t := range s.Targets {
		if t.Specials.Any() {
			return 4
		}
	}
	return 1
}

// Projected is the number of weighted samples the exact sweep would emit
func (s Sweep) Projected() int {
	if s.levels() < 1 {
		return 0
	}
	return len(s.Targets) * combat.PopulationSize * s.levels() * s.scenarioCount() * outcomesPerScenario
}

// scenario is one combination of affix matches and its probability
type scenario struct {
	prefix bool
	suffix bool
	weight float64
}

var noAffixes = []scenario{{weight: 1}}

// matchChances returns the chance a random threat affix matches each of
// the target's affixes: one in the pool size, or 0 when unset
func matchChances(sp items.Specials) (prefix, suffix float64) {
	if sp.Prefix != 0 {
		prefix = 1 / float64(items.PrefixPoolSize)
	}
	if sp.Suffix != 0 {
		suffix = 1 / float64(items.SuffixPoolSize)
	}
	return prefix, suffix
}

func (s Sweep) scenarios(t Target, level int) []scenario {
	if !s.Affixes || level < combat.BeastSpecialsUnlockLevel || !t.Specials.Any() {
		return noAffixes
	}

	pp, ps := matchChances(t.Specials)
	out := []scenario{{weight: (1 - pp) * (1 - ps)}}
	if pp > 0 {
		out = append(out, scenario{prefix: true, weight: pp * (1 - ps)})
	}
	if ps > 0 {
		out = append(out, scenario{suffix: true, weight: (1 - pp) * ps})
	}
	if pp > 0 && ps > 0 {
		out = append(out, scenario{prefix: true, suffix: true, weight: pp * ps})
	}
	return out
}

func (s Sweep) drawScenario(t Target, level int, rng *rand.Rand) scenario {
	if !s.Affixes || level < combat.BeastSpecialsUnlockLevel || !t.Specials.Any() {
		return noAffixes[0]
	}
	pp, ps := matchChances(t.Specials)
	return scenario{
		prefix: pp > 0 && rng.Float64() < pp,
		suffix: ps > 0 && rng.Float64() < ps,
		weight: 1,
	}
}

// strike describes threat id at a level hitting a target
func (s Sweep) strike(id, level int, t Target, sc scenario) combat.Strike {
	attackType := combat.BeastTypeForID(id).AttackType()
	if s.Category == Obstacles {
		attackType = combat.ObstacleTypeForID(id)
	}
	return combat.Strike{
		Attack:           combat.BaseValue(level, combat.TierForID(id)),
		AttackType:       attackType,
		Armor:            t.Armor,
		ArmorType:        t.ArmorType,
		PrefixMatch:      sc.prefix,
		SuffixMatch:      sc.suffix,
		ReductionPercent: s.ReductionPercent,
		Minimum:          s.Minimum,
	}
}

// ExactSweep enumerates every threat id, level and affix scenario against
// every target. Each threat id and level is equally likely.
func ExactSweep(s Sweep) ([]Histogram, error) {
	levels := s.levels()
	if levels < 1 {
		return nil, fmt.Errorf("insights: empty level range %d..%d", s.MinLevel, s.MaxLevel)
	}
	if projected := s.Projected(); s.MaxSamples > 0 && projected > s.MaxSamples {
		return nil, fmt.Errorf("%w: %d samples projected", ErrSweepBudgetExceeded, projected)
	}

	base := 1 / float64(combat.PopulationSize*levels)
	out := make([]Histogram, len(s.Targets))
	for i, t := range s.Targets {
		h := Histogram{}
		for id := 1; id <= combat.PopulationSize; id++ {
			for level := s.MinLevel; level <= s.MaxLevel; level++ {
				for _, sc := range s.scenarios(t, level) {
					w := base * sc.weight
					h.Add(0, w*s.AvoidChance)

					hit := w * (1 - s.AvoidChance)
					st := s.strike(id, level, t, sc)
					h.Add(st.Damage(false), hit*(1-s.CritChance))
					h.Add(st.Damage(true), hit*s.CritChance)
				}
			}
		}
		out[i] = h
	}
	return out, nil
}

// SampledSweep draws Samples random threats per target from a generator
// seeded with Seed, so the same sweep always yields the same histograms.
func SampledSweep(s Sweep) ([]Histogram, error) {
	levels := s.levels()
	if levels < 1 {
		return nil, fmt.Errorf("insights: empty level range %d..%d", s.MinLevel, s.MaxLevel)
	}
	n := s.Samples
	if n <= 0 {
		n = simulation.ExplorationSampleCount
	}

	rng := simulation.NewRand(s.Seed)
	w := 1 / float64(n)
	out := make([]Histogram, len(s.Targets))
	for i, t := range s.Targets {
		h := Histogram{}
		for range n {
			if rng.Float64() < s.AvoidChance {
				h.Add(0, w)
				continue
			}
			id := rng.IntN(combat.PopulationSize) + 1
			level := s.MinLevel + rng.IntN(levels)
			sc := s.drawScenario(t, level, rng)
			crit := rng.Float64() < s.CritChance
			h.Add(s.strike(id, level, t, sc).Damage(crit), w)
		}
		out[i] = h
	}
	return out, nil
}
