package simulation

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultSampleCount is the number of trials of a sampled fight
	DefaultSampleCount = 10000

	// ExplorationSampleCount is the smaller trial count used by sweeps
	ExplorationSampleCount = 2000
)

// trial is the outcome of one simulated fight
type trial struct {
	won    bool
	otk    bool
	dealt  int
	taken  int
	rounds int
}

// SampleResult aggregates many simulated fights
type SampleResult struct {
	Trials int
	Wins   int
	Losses int
	OTK    int

	DamageDealt map[int]int
	DamageTaken map[int]int
	Rounds      map[int]int
}

// SampleFights runs n independent simulated fights. Each strike draws one
// damage value from its distribution by a cumulative-probability roll.
func SampleFights(fc Context, n, maxRounds int, rng *rand.Rand) SampleResult {
	if n <= 0 {
		n = DefaultSampleCount
	}
	if maxRounds <= 0 {
		maxRounds = MaxRoundsPerFight
	}

	res := SampleResult{
		Trials:      n,
		DamageDealt: make(map[int]int),
		DamageTaken: make(map[int]int),
		Rounds:      make(map[int]int),
	}

	for i := 0; i < n; i++ {
		t := simulateFight(fc, maxRounds, rng)
		if t.won {
			res.Wins++
		} else {
			res.Losses++
		}
		if t.otk {
			res.OTK++
		}
		res.DamageDealt[t.dealt]++
		res.DamageTaken[t.taken]++
		res.Rounds[t.rounds]++
	}

	return res
}

// simulateFight runs a single fight. A loss in the first exchange (or to the
// ambush strike itself) is flagged as a one-turn kill, matching
// OneTurnKillChance.
func simulateFight(fc Context, maxRounds int, rng *rand.Rand) trial {
	var t trial
	hero := fc.HeroHealth
	beast := fc.BeastHealth

	if fc.InitialBeastStrike {
		d := rollDamage(fc.Initial, rng)
		t.taken += d
		hero -= d
		if hero <= 0 {
			t.rounds = 1
			t.otk = true
			return t
		}
	}

	for round := 1; ; round++ {
		if round > maxRounds {
			t.rounds = maxRounds
			return t
		}
		t.rounds = round

		d := rollDamage(fc.Hero, rng)
		t.dealt += d
		beast -= d
		if beast <= 0 {
			t.won = true
			return t
		}

		d = rollDamage(fc.Beast, rng)
		t.taken += d
		hero -= d
		if hero <= 0 {
			t.otk = round == 1 && !fc.InitialBeastStrike
			return t
		}
	}
}

// rollDamage draws a damage value by cumulative probability. Rounding
// shortfall at the top of the range lands on the last option.
func rollDamage(options []DamageOption, rng *rand.Rand) int {
	if len(options) == 1 {
		return options[0].Damage
	}
	roll := rng.Float64()
	cumulative := 0.0
	for _, o := range options {
		cumulative += o.Probability
		if roll < cumulative {
			return o.Damage
		}
	}
	return options[len(options)-1].Damage
}

// toResult converts sampled counts into a Result with the same shape as an
// exact solve.
func (s SampleResult) toResult() Result {
	dealt := Summarize(s.DamageDealt)
	taken := Summarize(s.DamageTaken)
	rounds := Summarize(s.Rounds)
	n := float64(s.Trials)
	return Result{
		HasOutcome:      true,
		WinRate:         float64(s.Wins) / n * 100,
		OTKRate:         clampRate(float64(s.OTK) / n * 100),
		ModeDamageDealt: dealt.Mode,
		MinDamageDealt:  dealt.Min,
		MaxDamageDealt:  dealt.Max,
		ModeDamageTaken: taken.Mode,
		MinDamageTaken:  taken.Min,
		MaxDamageTaken:  taken.Max,
		ModeRounds:      rounds.Mode,
		MinRounds:       rounds.Min,
		MaxRounds:       rounds.Max,
		ComputedVia:     MonteCarlo,
		Samples:         s.Trials,
	}
}

// NewRand returns a PCG generator for a seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedFor derives a reproducible seed from a fight context, so repeated
// requests with the same inputs sample the same trials.
func SeedFor(fc Context) uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	putOptions := func(options []DamageOption) {
		put(len(options))
		for _, o := range options {
			put(o.Damage)
			binary.LittleEndian.PutUint64(buf[:], uint64(o.Probability*1e12))
			h.Write(buf[:])
		}
	}

	put(fc.HeroHealth)
	put(fc.BeastHealth)
	if fc.InitialBeastStrike {
		put(1)
		putOptions(fc.Initial)
	} else {
		put(0)
	}
	putOptions(fc.Hero)
	putOptions(fc.Beast)
	return h.Sum64()
}
