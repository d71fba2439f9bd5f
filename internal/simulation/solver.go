package simulation

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrStateBudgetExceeded is returned when an exact solve outgrows its budget.
// Callers fall back to sampling.
var ErrStateBudgetExceeded = errors.New("simulation: deterministic state budget exceeded")

// Context is everything a solver needs to know about one fight
type Context struct {
	Hero  []DamageOption
	Beast []DamageOption

	// Initial is the distribution of the free beast strike that opens an
	// ambush. Only used when InitialBeastStrike is set.
	Initial []DamageOption

	HeroHealth  int
	BeastHealth int

	InitialBeastStrike bool

	MinHeroDamage  int
	MinBeastDamage int
}

// Limits bounds a solve
type Limits struct {
	MaxStates int
	MaxRounds int
}

func (l Limits) withDefaults() Limits {
	if l.MaxStates <= 0 {
		l.MaxStates = MaxDeterministicStateVisits
	}
	if l.MaxRounds <= 0 {
		l.MaxRounds = MaxRoundsPerFight
	}
	return l
}

// stateKey is the health pair of a live state. The rounds component of the
// full (hero, beast, rounds) key is the frontier the state sits in.
type stateKey struct {
	hero  int
	beast int
}

func compareKeys(a, b stateKey) int {
	if c := cmp.Compare(a.hero, b.hero); c != 0 {
		return c
	}
	return cmp.Compare(a.beast, b.beast)
}

// budget counts states and transitions against the cap
type budget struct {
	limit       int
	states      int
	transitions int
}

func (b *budget) visit(n int) error {
	b.states += n
	if b.states > b.limit {
		return fmt.Errorf("%w: %d states visited", ErrStateBudgetExceeded, b.states)
	}
	return nil
}

func (b *budget) transition() error {
	b.transitions++
	if b.transitions > b.limit {
		return fmt.Errorf("%w: %d transitions", ErrStateBudgetExceeded, b.transitions)
	}
	return nil
}

// SolveDeterministic computes the exact outcome distribution of a fight.
//
// The table is filled one round at a time: every live (heroHp, beastHp)
// state of round r is expanded across the hero × beast cross product and
// identical successor states are merged, so each distinct state of a round
// is expanded once. Damage totals are implied by the health pair, so the
// terminal branches carry all the distribution data. States are expanded in
// key order, making the result bit-for-bit reproducible.
func SolveDeterministic(fc Context, limits Limits) (StateOutcome, error) {
	limits = limits.withDefaults()
	if len(fc.Hero) == 0 || len(fc.Beast) == 0 {
		return StateOutcome{}, errors.New("simulation: empty damage distribution")
	}
	if fc.InitialBeastStrike && len(fc.Initial) == 0 {
		return StateOutcome{}, errors.New("simulation: ambush without an initial strike distribution")
	}

	out := newStateOutcome()
	b := &budget{limit: limits.MaxStates}

	frontier := map[stateKey]float64{{hero: fc.HeroHealth, beast: fc.BeastHealth}: 1}

	if fc.InitialBeastStrike {
		next := make(map[stateKey]float64, len(fc.Initial))
		for _, strike := range fc.Initial {
			if err := b.transition(); err != nil {
				return StateOutcome{}, err
			}
			hero := fc.HeroHealth - strike.Damage
			if hero <= 0 {
				out.record(false, 0, fc.HeroHealth-hero, 1, strike.Probability)
				continue
			}
			next[stateKey{hero: hero, beast: fc.BeastHealth}] += strike.Probability
		}
		frontier = next
	}

	for round := 1; len(frontier) > 0; round++ {
		keys := sortedKeys(frontier)

		if round > limits.MaxRounds {
			for _, k := range keys {
				out.record(false, fc.BeastHealth-k.beast, fc.HeroHealth-k.hero, limits.MaxRounds, frontier[k])
			}
			break
		}

		if err := b.visit(len(keys)); err != nil {
			return StateOutcome{}, err
		}

		next := make(map[stateKey]float64, len(keys))
		for _, k := range keys {
			p := frontier[k]
			for _, h := range fc.Hero {
				ph := p * h.Probability
				if ph < PruneProbability {
					continue
				}
				if err := b.transition(); err != nil {
					return StateOutcome{}, err
				}

				beast := k.beast - h.Damage
				if beast <= 0 {
					out.record(true, fc.BeastHealth-beast, fc.HeroHealth-k.hero, round, ph)
					continue
				}

				for _, s := range fc.Beast {
					pb := ph * s.Probability
					if pb < PruneProbability {
						continue
					}
					if err := b.transition(); err != nil {
						return StateOutcome{}, err
					}

					hero := k.hero - s.Damage
					if hero <= 0 {
						out.record(false, fc.BeastHealth-beast, fc.HeroHealth-hero, round, pb)
						continue
					}
					next[stateKey{hero: hero, beast: beast}] += pb
				}
			}
		}
		frontier = next
	}

	out.normalize()
	return out, nil
}

// OneTurnKillChance is the first-exchange lethality of a fight. Without an
// ambush it is the chance the hero's first strike leaves the beast alive
// and the beast's reply alone kills the hero at current health. With an
// ambush it is the chance the free opening strike kills the hero outright,
// measured before any hero action.
func OneTurnKillChance(fc Context) float64 {
	if fc.InitialBeastStrike {
		return massAtLeast(fc.Initial, fc.HeroHealth)
	}

	survive := 0.0
	for _, h := range fc.Hero {
		if h.Damage < fc.BeastHealth {
			survive += h.Probability
		}
	}
	return survive * massAtLeast(fc.Beast, fc.HeroHealth)
}

func massAtLeast(options []DamageOption, threshold int) float64 {
	p := 0.0
	for _, o := range options {
		if o.Damage >= threshold {
			p += o.Probability
		}
	}
	return p
}

func sortedKeys(frontier map[stateKey]float64) []stateKey {
	keys := make([]stateKey, 0, len(frontier))
	for k := range frontier {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}
