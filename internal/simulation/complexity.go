package simulation

import "math"

const (
	// MaxRoundsPerFight is the round at which a fight is scored as a loss
	MaxRoundsPerFight = 500

	// MaxDeterministicStateVisits caps states and transitions of an exact solve
	MaxDeterministicStateVisits = 80000
)

// Complexity is the projected size of an exact solve
type Complexity struct {
	HeroStates      int
	BeastStates     int
	BranchingFactor int
	Transitions     float64
	Weighted        float64
}

// Estimate projects how many states an exact solve of the fight would visit
func Estimate(fc Context, maxRounds int) Complexity {
	if maxRounds <= 0 {
		maxRounds = MaxRoundsPerFight
	}

	heroStates := maxRounds
	if fc.MinBeastDamage > 0 {
		heroStates = min(maxRounds, ceilDiv(fc.HeroHealth, fc.MinBeastDamage))
	}
	beastStates := maxRounds
	if fc.MinHeroDamage > 0 {
		beastStates = ceilDiv(fc.BeastHealth, fc.MinHeroDamage)
	}
	branching := len(fc.Hero) * len(fc.Beast)

	transitions := float64(heroStates) * float64(beastStates) * float64(branching)
	return Complexity{
		HeroStates:      heroStates,
		BeastStates:     beastStates,
		BranchingFactor: branching,
		Transitions:     transitions,
		Weighted:        transitions * math.Log2(float64(heroStates+beastStates+1)),
	}
}

// ChooseMethod picks the solving strategy for an estimate. Fights whose
// weighted complexity or raw transitions exceed the budget, or where either
// side alone needs more than a quarter of it, go straight to sampling.
func ChooseMethod(c Complexity, budget int) Method {
	if budget <= 0 {
		budget = MaxDeterministicStateVisits
	}
	limit := float64(budget)
	switch {
	case c.Weighted > limit, c.Transitions > limit:
		return MonteCarlo
	case c.HeroStates > budget/4, c.BeastStates > budget/4:
		return MonteCarlo
	}
	return Deterministic
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
